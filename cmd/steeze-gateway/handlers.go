package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joeydtaylor/steeze-gateway/pkg/codec"
	"github.com/joeydtaylor/steeze-gateway/pkg/core"
	"github.com/joeydtaylor/steeze-gateway/pkg/core/transform"
	"github.com/joeydtaylor/steeze-gateway/pkg/txn"
)

// Note is the model behind create_note.
type Note struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags,omitempty"`
}

func (n Note) Validate() error {
	if n.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

func init() {
	core.MustRegisterType[Note]("note", codec.JSONStrict)

	transform.Register[Note]("note", "trim", func(n Note) (Note, error) {
		n.Title = strings.TrimSpace(n.Title)
		n.Body = strings.TrimSpace(n.Body)
		return n, nil
	})

	core.Register("echo", core.Params{}, func(context.Context, *core.Call, core.Kwargs) (any, error) {
		return "pong", nil
	})

	core.Register("greet", core.Params{Optional: []string{"name"}}, func(_ context.Context, call *core.Call, args core.Kwargs) (any, error) {
		name := args.String("name")
		if name == "" {
			name = call.Caller().String()
		}
		return fmt.Sprintf("hello %s", name), nil
	})

	core.MustRegisterModel[Note](core.DefaultRegistry, "create_note", func(ctx context.Context, call *core.Call, n Note) (any, error) {
		if tx, ok := txn.From(call.Tx()); ok {
			if _, err := tx.Exec(ctx,
				`INSERT INTO notes (title, body, owner) VALUES ($1, $2, $3)`,
				n.Title, n.Body, call.Caller().ID(),
			); err != nil {
				return nil, err
			}
		}
		call.SetMessage("Note created.")
		return n, nil
	})
}
