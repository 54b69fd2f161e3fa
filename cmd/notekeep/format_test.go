package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notekeep/pkg/core"
)

func sampleNotes() []core.Note {
	return []core.Note{
		{ID: "1", Title: "Shopping list", Content: "milk", CreatedAt: 1, UpdatedAt: 1},
		{ID: "2", Title: "shop hours", Content: "9-5", CreatedAt: 2, UpdatedAt: 2},
		{ID: "3", Title: "Ideas", Content: "", CreatedAt: 3, UpdatedAt: 3},
	}
}

func TestFilterByTitle(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"empty keeps all", "", []string{"1", "2", "3"}},
		{"prefix is case-insensitive", "shop*", []string{"1", "2"}},
		{"exact", "Ideas", []string{"3"}},
		{"alternation", "{ideas,shop hours}", []string{"2", "3"}},
		{"no match", "zzz*", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filterByTitle(sampleNotes(), tt.pattern)
			require.NoError(t, err)

			var ids []string
			for _, n := range got {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterByTitle_BadPattern(t *testing.T) {
	_, err := filterByTitle(sampleNotes(), "[unclosed")
	assert.Error(t, err)
}

func TestWriteList(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	notes := []core.Note{
		{ID: "a", Title: "Groceries", Content: "milk", UpdatedAt: now.Add(-2 * time.Hour).UnixMilli()},
		{ID: "b", Title: "  ", Content: "untitled body", UpdatedAt: now.UnixMilli()},
	}

	var buf bytes.Buffer
	writeList(&buf, notes, now)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "a  Groceries"))
	assert.Contains(t, lines[0], "2 hours ago")
	assert.Contains(t, lines[1], "(untitled)")
}

func TestWriteExport(t *testing.T) {
	doc := exportDoc{
		SortOption:    core.SortByName,
		SortDirection: core.Ascending,
		Notes: []core.Note{
			{ID: "1", Title: "T", Content: "C", BackgroundColor: "#FFFFFF", CreatedAt: 10, UpdatedAt: 20},
		},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeExport(&buf, doc, "json"))

		var got exportDoc
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, doc, got)
		assert.Contains(t, buf.String(), `"backgroundColor": "#FFFFFF"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeExport(&buf, doc, "yaml"))

		var got exportDoc
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, doc, got)
		assert.Contains(t, buf.String(), "sortOption: name")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, writeExport(&bytes.Buffer{}, doc, "xml"))
	})
}

func TestPatchFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "edit"}
	cmd.Flags().String("title", "", "")
	cmd.Flags().String("content", "", "")
	cmd.Flags().String("color", "", "")
	cmd.Flags().String("image", "", "")

	require.NoError(t, cmd.Flags().Parse([]string{"--title", "New", "--image", ""}))

	p := patchFromFlags(cmd.Flags())
	require.NotNil(t, p.Title)
	assert.Equal(t, "New", *p.Title)
	require.NotNil(t, p.HeaderImage)
	assert.Equal(t, "", *p.HeaderImage)
	assert.Nil(t, p.Content)
	assert.Nil(t, p.BackgroundColor)
}

func TestSortArgs(t *testing.T) {
	assert.NoError(t, sortArgs(sortCmd, nil))
	assert.NoError(t, sortArgs(sortCmd, []string{"name", "asc"}))
	assert.Error(t, sortArgs(sortCmd, []string{"name"}))
}
