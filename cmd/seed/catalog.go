package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed seeds/*.toml
var seedFiles embed.FS

func init() {
	catalog := &catalogSource{}
	registerSeeder(&DocumentTypeSeeder{catalog: catalog})
	registerSeeder(&PositionSeeder{catalog: catalog})
}

// Catalog is the reference data loaded by the seeders.
type Catalog struct {
	DocumentTypes []struct {
		Name    string `toml:"name"`
		Acronym string `toml:"acronym"`
	} `toml:"document_types"`
	Positions []struct {
		Name string `toml:"name"`
	} `toml:"positions"`
}

// catalogSource reads the embedded catalog unless an external file is set.
type catalogSource struct {
	file string
}

func (c *catalogSource) load() (*Catalog, error) {
	var (
		content []byte
		err     error
	)

	if c.file != "" {
		content, err = os.ReadFile(c.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile("seeds/catalog.toml")
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var catalog Catalog
	if err := toml.Unmarshal(content, &catalog); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &catalog, nil
}

// DocumentTypeSeeder inserts document types, updating the acronym of any
// that already exist.
type DocumentTypeSeeder struct {
	catalog *catalogSource
}

func (s *DocumentTypeSeeder) Name() string { return "document-types" }

func (s *DocumentTypeSeeder) Description() string {
	return "Seeds the document type catalog"
}

func (s *DocumentTypeSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	catalog, err := s.catalog.load()
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO document_types (name, acronym)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET acronym = EXCLUDED.acronym`

	for _, t := range catalog.DocumentTypes {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("document type with empty name")
		}
		if _, err := tx.ExecContext(ctx, q, name, strings.TrimSpace(t.Acronym)); err != nil {
			return fmt.Errorf("save document type %s: %w", name, err)
		}
	}
	return nil
}

// PositionSeeder inserts positions, skipping names that already exist in
// any letter case.
type PositionSeeder struct {
	catalog *catalogSource
}

func (s *PositionSeeder) Name() string { return "positions" }

func (s *PositionSeeder) Description() string {
	return "Seeds the position catalog"
}

func (s *PositionSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	catalog, err := s.catalog.load()
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO positions (name)
		VALUES ($1)
		ON CONFLICT ((lower(name))) DO NOTHING`

	for _, p := range catalog.Positions {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("position with empty name")
		}
		if _, err := tx.ExecContext(ctx, q, name); err != nil {
			return fmt.Errorf("save position %s: %w", name, err)
		}
	}
	return nil
}
