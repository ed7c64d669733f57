// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonical/notes-service/internal/types"
	"github.com/canonical/notes-service/pkg/notes"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage notes",
}

var listNotesCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes for the authenticated tenant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp notes.NotesResponse
		if err := newAPIClient().do(cmd.Context(), http.MethodGet, "/notes", nil, &resp); err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NOTE_ID\tTITLE\tCREATED_BY")
		for _, n := range resp.Notes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", n.ID, n.Title, n.CreatedBy)
		}
		w.Flush()
		return nil
	},
}

var createNoteCmd = &cobra.Command{
	Use:   "create [title] [content]",
	Short: "Create a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp notes.NoteResponse
		req := notes.CreateNoteRequest{Title: args[0], Content: args[1]}
		if err := newAPIClient().do(cmd.Context(), http.MethodPost, "/notes", req, &resp); err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}

		fmt.Printf("Note created: %s\n", resp.Note.ID)
		return nil
	},
}

var getNoteCmd = &cobra.Command{
	Use:   "get [note-id]",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp notes.NoteResponse
		if err := newAPIClient().do(cmd.Context(), http.MethodGet, "/notes/"+args[0], nil, &resp); err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		printNote(resp.Note)
		return nil
	},
}

var deleteNoteCmd = &cobra.Command{
	Use:   "delete [note-id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient().do(cmd.Context(), http.MethodDelete, "/notes/"+args[0], nil, nil); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}

		fmt.Printf("Note deleted: %s\n", args[0])
		return nil
	},
}

func printNote(n *types.Note) {
	fmt.Printf("ID: %s\n", n.ID)
	fmt.Printf("Title: %s\n", n.Title)
	fmt.Printf("Created by: %s\n", n.CreatedBy)
	fmt.Printf("Created at: %s\n", n.CreatedAt)
	fmt.Println()
	fmt.Println(n.Content)
}

func init() {
	rootCmd.AddCommand(notesCmd)

	notesCmd.AddCommand(listNotesCmd)
	notesCmd.AddCommand(createNoteCmd)
	notesCmd.AddCommand(getNoteCmd)
	notesCmd.AddCommand(deleteNoteCmd)
}
