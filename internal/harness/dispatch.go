package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
	"github.com/atelier-labs/atelier/internal/services"
)

// dispatch invokes one facade operation by name. The returned record is the
// JSON map form of the operation's result, or nil for operations that only
// return a found flag (deletes, unlike).
func dispatch(ctx context.Context, svc *services.Services, op string, args map[string]any) (any, bool, error) {
	switch op {

	// admin
	case "admin.createUser":
		u, err := svc.Admin.CreateUser(ctx, str(args, "email"), str(args, "name"), domain.Role(str(args, "role")))
		return record(u, true, err)
	case "admin.getUser":
		u, ok, err := svc.Admin.GetUser(ctx, str(args, "user"))
		return record(u, ok, err)
	case "admin.deactivateUser":
		u, ok, err := svc.Admin.DeactivateUser(ctx, str(args, "user"))
		return record(u, ok, err)
	case "admin.reactivateUser":
		u, ok, err := svc.Admin.ReactivateUser(ctx, str(args, "user"))
		return record(u, ok, err)
	case "admin.listUsers":
		page, err := svc.Admin.ListUsers(ctx, params(args))
		return record(page, true, err)
	case "admin.createOption":
		o, err := svc.Admin.CreateOption(ctx, domain.DropdownOption{
			Category: str(args, "category"),
			Key:      str(args, "key"),
			Value:    str(args, "value"),
			Label:    str(args, "label"),
			Order:    integer(args, "order"),
			Active:   boolean(args, "active", true),
		})
		return record(o, true, err)
	case "admin.deleteOption":
		ok, err := svc.Admin.DeleteOption(ctx, str(args, "option"))
		return nil, ok, err
	case "admin.resolvePostFlag":
		f, ok, err := svc.Admin.ResolvePostFlag(ctx, str(args, "flag"), domain.FlagStatus(str(args, "to")), str(args, "resolvedBy"))
		return record(f, ok, err)
	case "admin.resolveProfileFlag":
		f, ok, err := svc.Admin.ResolveProfileFlag(ctx, str(args, "flag"), domain.FlagStatus(str(args, "to")), str(args, "resolvedBy"))
		return record(f, ok, err)
	case "admin.recordEvent":
		e, err := svc.Admin.RecordEvent(ctx, str(args, "user"), str(args, "kind"), strMap(args, "properties"))
		return record(e, true, err)

	// profiles
	case "profiles.create":
		p, err := svc.Profiles.Create(ctx, services.CreateProfileInput{
			UserID:      str(args, "user"),
			DisplayName: str(args, "displayName"),
			Headline:    str(args, "headline"),
			Bio:         str(args, "bio"),
			Location:    str(args, "location"),
			Crafts:      strs(args, "crafts"),
			Materials:   strs(args, "materials"),
			Techniques:  strs(args, "techniques"),
			Visible:     boolean(args, "visible", true),
		})
		return record(p, true, err)
	case "profiles.get":
		p, ok, err := svc.Profiles.Get(ctx, str(args, "profile"))
		return record(p, ok, err)
	case "profiles.getByUser":
		p, ok, err := svc.Profiles.GetByUser(ctx, str(args, "user"))
		return record(p, ok, err)
	case "profiles.delete":
		ok, err := svc.Profiles.Delete(ctx, str(args, "profile"))
		return nil, ok, err
	case "profiles.flag":
		f, ok, err := svc.Profiles.Flag(ctx, str(args, "profile"), str(args, "reporter"), str(args, "reason"))
		return record(f, ok, err)
	case "profiles.list":
		page, err := svc.Profiles.List(ctx, params(args))
		return record(page, true, err)

	// posts
	case "posts.create":
		p, err := svc.Posts.Create(ctx, services.CreatePostInput{
			AuthorID: str(args, "author"),
			Content:  str(args, "content"),
			ImageURL: str(args, "imageUrl"),
			Tags:     strs(args, "tags"),
		})
		return record(p, true, err)
	case "posts.get":
		p, ok, err := svc.Posts.Get(ctx, str(args, "post"))
		return record(p, ok, err)
	case "posts.delete":
		ok, err := svc.Posts.Delete(ctx, str(args, "post"))
		return nil, ok, err
	case "posts.like":
		p, ok, err := svc.Posts.Like(ctx, str(args, "post"), str(args, "user"))
		return record(p, ok, err)
	case "posts.unlike":
		p, ok, err := svc.Posts.Unlike(ctx, str(args, "post"), str(args, "user"))
		return record(p, ok, err)
	case "posts.comment":
		c, ok, err := svc.Posts.AddComment(ctx, str(args, "post"), str(args, "author"), str(args, "body"))
		return record(c, ok, err)
	case "posts.flag":
		f, ok, err := svc.Posts.Flag(ctx, str(args, "post"), str(args, "reporter"), str(args, "reason"))
		return record(f, ok, err)
	case "posts.list":
		page, err := svc.Posts.List(ctx, params(args))
		return record(page, true, err)

	// connections
	case "connections.send":
		c, err := svc.Connections.SendRequest(ctx, str(args, "requester"), str(args, "target"))
		return record(c, true, err)
	case "connections.accept":
		c, ok, err := svc.Connections.Accept(ctx, str(args, "connection"))
		return record(c, ok, err)
	case "connections.reject":
		c, ok, err := svc.Connections.Reject(ctx, str(args, "connection"))
		return record(c, ok, err)
	case "connections.remove":
		ok, err := svc.Connections.Remove(ctx, str(args, "connection"))
		return nil, ok, err
	case "connections.get":
		c, ok, err := svc.Connections.Get(ctx, str(args, "connection"))
		return record(c, ok, err)
	case "connections.list":
		page, err := svc.Connections.List(ctx, params(args))
		return record(page, true, err)

	// messaging
	case "messaging.thread":
		t, err := svc.Messaging.GetOrCreateThread(ctx, str(args, "a"), str(args, "b"))
		return record(t, true, err)
	case "messaging.send":
		m, ok, err := svc.Messaging.SendMessage(ctx, str(args, "thread"), str(args, "sender"), str(args, "body"))
		return record(m, ok, err)
	case "messaging.getThread":
		t, ok, err := svc.Messaging.GetThread(ctx, str(args, "thread"))
		return record(t, ok, err)

	// resources
	case "resources.create":
		r, _, err := svc.Resources.Create(ctx, services.CreateResourceInput{
			AuthorID:    str(args, "author"),
			Title:       str(args, "title"),
			Description: str(args, "description"),
			URL:         str(args, "url"),
			Tags:        strs(args, "tags"),
		})
		return record(r, true, err)
	case "resources.get":
		r, ok, err := svc.Resources.Get(ctx, str(args, "resource"))
		return record(r, ok, err)
	case "resources.submission":
		sub, ok, err := svc.Resources.Submission(ctx, str(args, "resource"))
		return record(sub, ok, err)
	case "resources.approve":
		sub, ok, err := svc.Resources.ApproveSubmission(ctx, str(args, "submission"), str(args, "reviewer"))
		return record(sub, ok, err)
	case "resources.reject":
		sub, ok, err := svc.Resources.RejectSubmission(ctx, str(args, "submission"), str(args, "reviewer"))
		return record(sub, ok, err)
	case "resources.delete":
		ok, err := svc.Resources.Delete(ctx, str(args, "resource"))
		return nil, ok, err
	case "resources.list":
		page, err := svc.Resources.List(ctx, params(args))
		return record(page, true, err)

	// listings
	case "listings.create":
		l, _, err := svc.Listings.Create(ctx, services.CreateListingInput{
			ProviderID:  str(args, "provider"),
			Title:       str(args, "title"),
			Description: str(args, "description"),
			Category:    str(args, "category"),
			Tags:        strs(args, "tags"),
		})
		return record(l, true, err)
	case "listings.get":
		l, ok, err := svc.Listings.Get(ctx, str(args, "listing"))
		return record(l, ok, err)
	case "listings.submission":
		sub, ok, err := svc.Listings.Submission(ctx, str(args, "listing"))
		return record(sub, ok, err)
	case "listings.approve":
		sub, ok, err := svc.Listings.ApproveSubmission(ctx, str(args, "submission"), str(args, "reviewer"))
		return record(sub, ok, err)
	case "listings.reject":
		sub, ok, err := svc.Listings.RejectSubmission(ctx, str(args, "submission"), str(args, "reviewer"))
		return record(sub, ok, err)
	case "listings.delete":
		ok, err := svc.Listings.Delete(ctx, str(args, "listing"))
		return nil, ok, err
	case "listings.list":
		page, err := svc.Listings.List(ctx, params(args))
		return record(page, true, err)

	// events
	case "events.create":
		start, err := when(args, "start")
		if err != nil {
			return nil, false, err
		}
		end, err := when(args, "end")
		if err != nil {
			return nil, false, err
		}
		e, err := svc.Events.Create(ctx, services.CreateEventInput{
			OrganizerID: str(args, "organizer"),
			Title:       str(args, "title"),
			Description: str(args, "description"),
			Location:    str(args, "location"),
			StartDate:   start,
			EndDate:     end,
		})
		return record(e, true, err)
	case "events.get":
		e, ok, err := svc.Events.Get(ctx, str(args, "event"))
		return record(e, ok, err)
	case "events.delete":
		ok, err := svc.Events.Delete(ctx, str(args, "event"))
		return nil, ok, err
	case "events.list":
		page, err := svc.Events.List(ctx, params(args))
		return record(page, true, err)

	// tickets
	case "tickets.create":
		t, err := svc.Tickets.Create(ctx, services.CreateTicketInput{
			SubmittedBy: str(args, "submittedBy"),
			Subject:     str(args, "subject"),
			Body:        str(args, "body"),
			Priority:    domain.TicketPriority(str(args, "priority")),
		})
		return record(t, true, err)
	case "tickets.get":
		t, ok, err := svc.Tickets.Get(ctx, str(args, "ticket"))
		return record(t, ok, err)
	case "tickets.assign":
		t, ok, err := svc.Tickets.Assign(ctx, str(args, "ticket"), str(args, "assignee"))
		return record(t, ok, err)
	case "tickets.status":
		t, ok, err := svc.Tickets.UpdateStatus(ctx, str(args, "ticket"), domain.TicketStatus(str(args, "to")))
		return record(t, ok, err)
	case "tickets.priority":
		t, ok, err := svc.Tickets.SetPriority(ctx, str(args, "ticket"), domain.TicketPriority(str(args, "to")))
		return record(t, ok, err)
	case "tickets.delete":
		ok, err := svc.Tickets.Delete(ctx, str(args, "ticket"))
		return nil, ok, err
	case "tickets.list":
		page, err := svc.Tickets.List(ctx, params(args))
		return record(page, true, err)
	}

	return nil, false, fmt.Errorf("unknown op %q", op)
}

// record converts a typed result to its JSON map form. Conversion is
// skipped on error or not-found so the caller sees exactly what the facade
// reported.
func record(v any, ok bool, err error) (any, bool, error) {
	if err != nil || !ok {
		return nil, ok, err
	}
	data, merr := json.Marshal(v)
	if merr != nil {
		return nil, false, merr
	}
	var m map[string]any
	if uerr := json.Unmarshal(data, &m); uerr != nil {
		return nil, false, uerr
	}
	return m, true, nil
}

func str(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func strs(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func strMap(args map[string]any, key string) map[string]string {
	raw, ok := args[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func integer(args map[string]any, key string) int {
	if n, ok := asFloat(args[key]); ok {
		return int(n)
	}
	return 0
}

func boolean(args map[string]any, key string, def bool) bool {
	if b, ok := args[key].(bool); ok {
		return b
	}
	return def
}

// when parses an RFC 3339 timestamp arg. An absent arg yields the zero time;
// a present but malformed one is an error so a scenario typo fails loudly.
func when(args map[string]any, key string) (time.Time, error) {
	s := str(args, key)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("arg %q: %w", key, err)
	}
	return t, nil
}

// params builds query parameters from step args. Defaults mirror the
// facades: page 1, limit 20.
func params(args map[string]any) query.Params {
	p := query.Params{Page: 1, Limit: 20}
	if n, ok := asFloat(args["page"]); ok {
		p.Page = int(n)
	}
	if n, ok := asFloat(args["limit"]); ok {
		p.Limit = int(n)
	}
	if raw, ok := args["filter"].(map[string]any); ok {
		p.Filters = query.Filters(raw)
	}
	if raw, ok := args["sort"].(map[string]any); ok {
		p.Sort = &query.Sort{
			Field:     str(raw, "field"),
			Direction: query.Direction(str(raw, "dir")),
		}
	}
	return p
}
