package storage

import (
	"context"
	"fmt"

	"github.com/tobsdb/pdb/internal/builder"
	"github.com/tobsdb/pdb/pkg"
)

// Provider loads and saves the catalog and the rows of each table.
// A missing catalog or table is an empty state, never an error.
type Provider interface {
	LoadCatalog(ctx context.Context) (*builder.Catalog, error)
	SaveCatalog(ctx context.Context, catalog *builder.Catalog) error
	LoadTable(ctx context.Context, table *builder.Table) (*builder.TableRows, error)
	SaveTable(ctx context.Context, table *builder.Table, rows *builder.TableRows) error
}

// blobStore is a flat key/value store of encoded documents.
type blobStore interface {
	// get reports false when key does not exist
	get(ctx context.Context, key string) ([]byte, bool, error)
	put(ctx context.Context, key string, data []byte) error
	String() string
}

// blobProvider implements Provider over any blobStore using the json layout
// `db_meta.json` + `data/<table>.json`.
type blobProvider struct {
	store blobStore
}

func (p *blobProvider) LoadCatalog(ctx context.Context) (*builder.Catalog, error) {
	data, ok, err := p.store.get(ctx, META_KEY)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", META_KEY, err)
	}
	if !ok {
		pkg.DebugLog("no catalog found in", p.store)
		return builder.NewCatalog(), nil
	}
	return decodeCatalog(data)
}

func (p *blobProvider) SaveCatalog(ctx context.Context, catalog *builder.Catalog) error {
	data, err := encodeCatalog(catalog)
	if err != nil {
		return err
	}
	if err := p.store.put(ctx, META_KEY, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", META_KEY, err)
	}
	return nil
}

func (p *blobProvider) LoadTable(ctx context.Context, table *builder.Table) (*builder.TableRows, error) {
	key := TableKey(table.Name)
	data, ok, err := p.store.get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return builder.NewTableRows(), nil
	}
	return decodeRows(table, data)
}

func (p *blobProvider) SaveTable(ctx context.Context, table *builder.Table, rows *builder.TableRows) error {
	key := TableKey(table.Name)
	data, err := encodeRows(table, rows)
	if err != nil {
		return err
	}
	if err := p.store.put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	pkg.DebugLog("saved", rows.Len(), "rows to", key)
	return nil
}

type Kind string

const (
	KindFile   Kind = "file"
	KindMemory Kind = "memory"
	KindS3     Kind = "s3"
)

type Options struct {
	Kind    Kind
	DataDir string
	S3      S3Options
}

// Open builds the provider selected by opts.Kind.
func Open(ctx context.Context, opts Options) (Provider, error) {
	switch opts.Kind {
	case KindFile, "":
		if opts.DataDir == "" {
			return nil, fmt.Errorf("file storage needs a data directory")
		}
		return NewFileProvider(opts.DataDir), nil
	case KindMemory:
		return NewMemoryProvider(), nil
	case KindS3:
		return NewS3Provider(ctx, opts.S3)
	}
	return nil, fmt.Errorf("unknown storage kind: %s", opts.Kind)
}
