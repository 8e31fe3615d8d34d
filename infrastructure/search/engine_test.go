package search

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, indexPath string, db *badger.DB, docs []Document) {
	t.Helper()
	req := require.New(t)

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(indexPath))
	req.NoError(err)
	defer writer.Close()

	for _, doc := range docs {
		blugeDoc := bluge.NewDocument(doc.ID).
			AddField(bluge.NewTextField("text", doc.Text))
		req.NoError(writer.Update(blugeDoc.ID(), blugeDoc))

		value, err := json.Marshal(doc)
		req.NoError(err)
		req.NoError(db.Update(func(txn *badger.Txn) error {
			return txn.Set(Key(doc.ID), value)
		}))
	}
}

func newTestEngine(t *testing.T, docs []Document) *Engine {
	t.Helper()
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	indexPath := t.TempDir()
	seedStore(t, indexPath, db, docs)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(indexPath, db, log)
}

func TestEngine_Query_Returns_Stored_Documents(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine(t, []Document{
		{
			ID:         "chunk-1",
			Text:       "community acquired pneumonia empiric antibiotic selection",
			SourceFile: "cap_guide.pdf",
			SourcePath: "/kb/cap_guide.pdf",
			Category:   "clinical_guideline",
		},
		{
			ID:         "chunk-2",
			Text:       "asthma exacerbation stepwise management",
			SourceFile: "asthma.pdf",
			Category:   "textbook",
		},
	})

	hits, err := engine.Query(context.Background(), "pneumonia antibiotic", 10)
	req.NoError(err)

	req.NotEmpty(hits)
	req.Equal("community acquired pneumonia empiric antibiotic selection", hits[0].Text)
	req.Equal("cap_guide.pdf", hits[0].SourceFile)
	req.Equal("clinical_guideline", hits[0].Category)
	req.NotNil(hits[0].Score)
	req.Greater(*hits[0].Score, 0.0)
}

func TestEngine_Query_Respects_TopK(t *testing.T) {
	req := require.New(t)
	var docs []Document
	for _, id := range []string{"a", "b", "c", "d"} {
		docs = append(docs, Document{
			ID:   id,
			Text: "pneumonia management considerations chunk " + id,
		})
	}
	engine := newTestEngine(t, docs)

	hits, err := engine.Query(context.Background(), "pneumonia management", 2)
	req.NoError(err)

	req.Len(hits, 2)
}

func TestEngine_Query_Drops_Hits_Missing_From_The_Store(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine(t, []Document{
		{ID: "kept", Text: "pneumonia severity scoring"},
		{ID: "orphan", Text: "pneumonia follow up imaging"},
	})

	// Remove one document from badger while its index entry remains.
	req.NoError(engine.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(Key("orphan"))
	}))

	hits, err := engine.Query(context.Background(), "pneumonia", 10)
	req.NoError(err)

	req.Len(hits, 1)
	req.Equal("pneumonia severity scoring", hits[0].Text)
}

func TestEngine_Query_On_Empty_Index_Returns_No_Hits(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine(t, nil)

	hits, err := engine.Query(context.Background(), "pneumonia", 5)
	req.NoError(err)

	req.Empty(hits)
}
