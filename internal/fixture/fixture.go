// Package fixture loads explicit datasets from CUE files.
//
// Where the seed package generates plausible data from a random seed,
// fixtures state exact contents: tests and demos that assert on specific
// records load a fixture directory instead. The embedded schema validates
// every file before anything touches the repository, so a typo in a role
// name fails at load, not halfway through an apply.
package fixture

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

//go:embed schema.cue
var schemaCUE string

// Dataset is a decoded fixture directory.
type Dataset struct {
	Users   []User   `json:"users"`
	Options []Option `json:"options,omitempty"`
	Posts   []Post   `json:"posts,omitempty"`
}

// User declares one user plus, optionally, their profile.
type User struct {
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Role    string   `json:"role"`
	Profile *Profile `json:"profile,omitempty"`
}

// Profile declares the profile fields for a fixture user.
type Profile struct {
	DisplayName string   `json:"displayName"`
	Headline    string   `json:"headline,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Location    string   `json:"location,omitempty"`
	Crafts      []string `json:"crafts,omitempty"`
	Materials   []string `json:"materials,omitempty"`
	Techniques  []string `json:"techniques,omitempty"`
	Visible     bool     `json:"visible"`
}

// Option declares one dropdown option.
type Option struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Order    int    `json:"order"`
	Active   bool   `json:"active"`
}

// Post declares one post. Author, likers and comment authors reference
// users by email.
type Post struct {
	Author   string    `json:"author"`
	Content  string    `json:"content"`
	Tags     []string  `json:"tags,omitempty"`
	Likes    []string  `json:"likes,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}

// Comment declares one comment on a fixture post.
type Comment struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

// Load reads every CUE file in dir, validates the merged value against the
// embedded schema, and decodes it.
func Load(dir string) (*Dataset, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fixture dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixture dir: %s is not a directory", dir)
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile fixture schema: %w", err)
	}
	datasetDef := schema.LookupPath(cue.ParsePath("#Dataset"))
	if err := datasetDef.Err(); err != nil {
		return nil, fmt.Errorf("fixture schema has no #Dataset: %w", err)
	}

	insts := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(insts) == 0 {
		return nil, fmt.Errorf("no CUE files in %s", dir)
	}
	if insts[0].Err != nil {
		return nil, fmt.Errorf("load fixtures: %w", insts[0].Err)
	}

	value := ctx.BuildInstance(insts[0])
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("build fixtures: %w", err)
	}

	unified := datasetDef.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate fixtures: %w", err)
	}

	var ds Dataset
	if err := unified.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &ds, nil
}
