package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atelier-labs/atelier/internal/printer"
	"github.com/atelier-labs/atelier/internal/query"
	"github.com/atelier-labs/atelier/internal/seed"
	"github.com/atelier-labs/atelier/internal/services"
)

// listCollections maps collection argument to the facade list call and the
// field shown in text output next to the id.
var listCollections = map[string]string{
	"users":       "email",
	"profiles":    "displayName",
	"posts":       "content",
	"connections": "status",
	"resources":   "title",
	"listings":    "title",
	"events":      "title",
	"tickets":     "subject",
}

// NewListCommand creates the list command. It seeds a deterministic dataset
// and runs one paginated query against it, exercising the same filter, sort
// and pagination pipeline a backend would expose.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var (
		seedVal int64
		page    int
		limit   int
		filters []string
		sortBy  string
	)

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List one page of a seeded collection",
		Long: "List one page of a seeded collection. Collections: users, profiles,\n" +
			"posts, connections, resources, listings, events, tickets.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &Formatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			collection := args[0]
			if _, ok := listCollections[collection]; !ok {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown collection %q", collection))
			}

			params, err := buildParams(page, limit, filters, sortBy)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid query flags", err)
			}

			repo := seed.NewRepository(seedVal)
			svc := services.New(repo, services.WithLogger(opts.Logger))
			if _, err := (seed.Generator{Spec: seed.DefaultSpec(seedVal)}).Apply(cmd.Context(), svc); err != nil {
				return WrapExitError(ExitCommandError, "seed generation failed", err)
			}

			pageData, err := runList(cmd.Context(), svc, collection, params)
			if err != nil {
				if f.JSON() {
					_ = f.EmitError(err.Error())
					return NewExitError(ExitFailure, "query failed")
				}
				return printer.Error("Query failed", err.Error(), []string{
					"Check the filter field names against the collection's schema",
				})
			}

			if f.JSON() {
				return f.Emit(pageData)
			}
			return renderPage(f, collection, pageData)
		},
	}

	cmd.Flags().Int64Var(&seedVal, "seed", 1, "random seed for the dataset")
	cmd.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "field=value filter (repeatable)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort as field:asc or field:desc")

	return cmd
}

// buildParams assembles query parameters from the flag values.
func buildParams(page, limit int, filters []string, sortBy string) (query.Params, error) {
	p := query.Params{Page: page, Limit: limit}
	for _, raw := range filters {
		field, value, ok := strings.Cut(raw, "=")
		if !ok || field == "" {
			return p, fmt.Errorf("bad filter %q (want field=value)", raw)
		}
		if p.Filters == nil {
			p.Filters = query.Filters{}
		}
		p.Filters[field] = value
	}
	if sortBy != "" {
		field, dir, ok := strings.Cut(sortBy, ":")
		if !ok || field == "" {
			return p, fmt.Errorf("bad sort %q (want field:asc or field:desc)", sortBy)
		}
		p.Sort = &query.Sort{Field: field, Direction: query.Direction(dir)}
	}
	return p, nil
}

// pageView is the collection-agnostic shape rendered by the list command.
type pageView struct {
	Data    []map[string]any `json:"data"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	HasNext bool             `json:"hasNext"`
	HasPrev bool             `json:"hasPrev"`
}

func runList(ctx context.Context, svc *services.Services, collection string, p query.Params) (*pageView, error) {
	var result any
	var err error
	switch collection {
	case "users":
		result, err = svc.Admin.ListUsers(ctx, p)
	case "profiles":
		result, err = svc.Profiles.List(ctx, p)
	case "posts":
		result, err = svc.Posts.List(ctx, p)
	case "connections":
		result, err = svc.Connections.List(ctx, p)
	case "resources":
		result, err = svc.Resources.List(ctx, p)
	case "listings":
		result, err = svc.Listings.List(ctx, p)
	case "events":
		result, err = svc.Events.List(ctx, p)
	case "tickets":
		result, err = svc.Tickets.List(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var view pageView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func renderPage(f *Formatter, collection string, view *pageView) error {
	label := listCollections[collection]
	printer.Info("%s: page %d/%d records, total %d\n", collection, view.Page, len(view.Data), view.Total)
	for _, row := range view.Data {
		value, _ := row[label].(string)
		if len(value) > 60 {
			value = value[:57] + "..."
		}
		fmt.Fprintf(f.Writer, "  %s  %s\n", row["id"], value)
	}
	if view.HasNext {
		printer.Detail("more: --page %d\n", view.Page+1)
	}
	return nil
}
