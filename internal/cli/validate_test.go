package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture creates a temp fixture directory with one CUE file.
func writeFixture(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "dataset.cue"), []byte(content), 0o644)
	require.NoError(t, err)
	return dir
}

const validDataset = `
package fixtures

users: [
	{
		email: "ines@example.com"
		name:  "Ines Costa"
		role:  "MAKER"
		profile: {
			displayName: "Costa Ceramics"
			location:    "Lisbon"
			crafts: ["pottery"]
		}
	},
	{
		email: "jonas@example.com"
		name:  "Jonas Berg"
		role:  "BUYER"
	},
]
options: [
	{category: "craft", key: "pottery", value: "pottery", label: "Pottery"},
]
posts: [
	{
		author:  "ines@example.com"
		content: "First firing of the season."
		tags: ["pottery"]
		likes: ["jonas@example.com"]
		comments: [
			{author: "jonas@example.com", body: "Beautiful glaze."},
		]
	},
]
`

func TestValidateCommand_ValidDataset(t *testing.T) {
	dir := writeFixture(t, validDataset)

	out, err := execute(t, "validate", dir, "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	require.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(2), data["users"])
	assert.Equal(t, float64(1), data["options"])
	assert.Equal(t, float64(1), data["posts"])
}

func TestValidateCommand_BadRole(t *testing.T) {
	dir := writeFixture(t, `
package fixtures

users: [
	{email: "x@example.com", name: "X", role: "WIZARD"},
]
`)
	_, err := execute(t, "validate", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateCommand_DanglingReference(t *testing.T) {
	dir := writeFixture(t, `
package fixtures

users: [
	{email: "x@example.com", name: "X", role: "MAKER"},
]
posts: [
	{author: "ghost@example.com", content: "Orphan post."},
]
`)
	_, err := execute(t, "validate", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateCommand_MissingDir(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope"), "--format", "json")
	require.Error(t, err)
}
