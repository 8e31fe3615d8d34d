// Package search adapts a bluge full-text index plus a badger document
// store into the pipeline's retrieval-engine contract. The index is
// built and maintained elsewhere; this adapter only queries it.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"ward-lab/domain"
)

// Document is the stored form of one evidence chunk. The badger value
// is its JSON encoding; bluge indexes the text and holds the id.
type Document struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	SourceFile string `json:"source_file"`
	SourcePath string `json:"source_path"`
	Category   string `json:"category"`
}

// Key is the badger key for a document id. Keeping the prefix in one
// place lets indexing tools and this reader agree on layout.
func Key(id string) []byte {
	return []byte("evidence:" + id)
}

// Engine implements contract.RetrievalEngine over an existing index.
type Engine struct {
	cfg bluge.Config
	db  *badger.DB
	log *slog.Logger
}

func NewEngine(indexPath string, db *badger.DB, log *slog.Logger) *Engine {
	return &Engine{cfg: bluge.DefaultConfig(indexPath), db: db, log: log}
}

// Query matches the text field and resolves each hit to its stored
// document. Hits whose document vanished from badger are dropped with
// a warning rather than failing the whole query.
func (e *Engine) Query(ctx context.Context, text string, topK int) ([]domain.RawEvidence, error) {
	reader, err := bluge.OpenReader(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewMatchQuery(text).SetField("text")
	request := bluge.NewTopNSearch(topK, query)
	iter, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var hits []domain.RawEvidence
	for {
		match, err := iter.Next()
		if err != nil {
			return nil, fmt.Errorf("iterate matches: %w", err)
		}
		if match == nil {
			break
		}

		var id string
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				id = string(value)
			}
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("visit stored fields: %w", err)
		}

		doc, err := e.fetch(id)
		if err != nil {
			e.log.Warn("Indexed document missing from store", "id", id, "err", err)
			continue
		}
		hits = append(hits, domain.RawEvidence{
			Text:       doc.Text,
			SourceFile: doc.SourceFile,
			SourcePath: doc.SourcePath,
			Category:   doc.Category,
			Score:      lo.ToPtr(match.Score),
		})
	}
	return hits, nil
}

func (e *Engine) fetch(id string) (Document, error) {
	var doc Document
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(Key(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &doc)
		})
	})
	return doc, err
}
