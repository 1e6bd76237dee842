// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/creachadair/jfmt/validate"
	"github.com/goccy/go-json"
)

type historyCmd struct {
	List   historyListCmd   `cmd:"" default:"1" help:"List saved documents, most recent first."`
	Show   historyShowCmd   `cmd:"" help:"Print a saved document."`
	Save   historySaveCmd   `cmd:"" help:"Save a document."`
	Delete historyDeleteCmd `cmd:"" help:"Delete a saved document."`
	Clear  historyClearCmd  `cmd:"" help:"Delete all saved documents."`
}

type historyListCmd struct {
	JSON bool `help:"Print the entries as JSON."`
}

func (c *historyListCmd) Run(e *env) error {
	hs, err := e.openHistory()
	if err != nil {
		return err
	}
	es, err := hs.List()
	if err != nil {
		return err
	}
	if c.JSON {
		data, err := json.MarshalIndent(es, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, string(data))
		return nil
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 8, 2, ' ', 0)
	for _, ent := range es {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			ent.ID, ent.Timestamp.Local().Format(time.DateTime), ent.Size, ent.Preview)
	}
	return tw.Flush()
}

type historyShowCmd struct {
	ID string `arg:"" help:"ID of the entry."`
}

func (c *historyShowCmd) Run(e *env) error {
	hs, err := e.openHistory()
	if err != nil {
		return err
	}
	ent, err := hs.Get(c.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, ent.Content)
	return nil
}

type historySaveCmd struct {
	File string `arg:"" optional:"" help:"Input file (default: stdin)."`
}

func (c *historySaveCmd) Run(e *env) error {
	text, err := e.readInput(c.File)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(c.File), err)
	}
	if res := validate.Text(text); !res.Valid {
		e.reportf(c.File, res.Err)
		return errReported
	}
	hs, err := e.openHistory()
	if err != nil {
		return err
	}
	ent, err := hs.Save(text)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, ent.ID)
	return nil
}

type historyDeleteCmd struct {
	IDs []string `arg:"" name:"id" help:"IDs of the entries to delete."`
}

func (c *historyDeleteCmd) Run(e *env) error {
	hs, err := e.openHistory()
	if err != nil {
		return err
	}
	for _, id := range c.IDs {
		if err := hs.Delete(id); err != nil {
			return err
		}
	}
	return nil
}

type historyClearCmd struct{}

func (c *historyClearCmd) Run(e *env) error {
	hs, err := e.openHistory()
	if err != nil {
		return err
	}
	return hs.Clear()
}
