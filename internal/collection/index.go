package collection

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/models"
	"github.com/desertthunder/audious/internal/shared"
)

// CategoryScan is the outcome of scanning one category.
type CategoryScan struct {
	Category models.Category
	Songs    []string
	Albums   []models.AlbumIdentity
}

// Index scans the categories of a collection and keeps the running album total.
type Index struct {
	root        string
	categories  []models.Category
	totalAlbums int
	logger      *log.Logger
}

// NewIndex creates an Index over the ordered category list.
//
// An empty list is a configuration error.
func NewIndex(root string, categories []models.Category, logger *log.Logger) (*Index, error) {
	if len(categories) == 0 {
		return nil, shared.ConfigError("at least one music category is required, add a music category and try again")
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Index{root: root, categories: categories, logger: logger}, nil
}

// Root returns the collection root.
func (i *Index) Root() string { return i.root }

// Categories returns the categories in declared order.
func (i *Index) Categories() []models.Category { return i.categories }

// Scan walks one category, derives its albums and adds them to the running total.
func (i *Index) Scan(category models.Category) (*CategoryScan, error) {
	songs, err := Scan(category.Path, shared.WithLogger(i.logger, "category", category.Name))
	if err != nil {
		return nil, err
	}
	albums := DeriveAlbums(songs, i.root)
	i.totalAlbums += len(albums)
	return &CategoryScan{Category: category, Songs: songs, Albums: albums}, nil
}

// TotalAlbums returns the albums counted by every Scan so far.
func (i *Index) TotalAlbums() int { return i.totalAlbums }

// CheckTotal fails when every category was scanned and no album was found.
func (i *Index) CheckTotal() error {
	if i.totalAlbums == 0 {
		return shared.ConfigError("at least one album is required, add an album in the music collection and try again")
	}
	return nil
}
