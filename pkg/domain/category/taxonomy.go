// Package category holds the closed expense and income category taxonomy.
// The taxonomy is parsed once at start-up and is read-only afterwards.
package category

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/saveblue/saveblue/pkg/domain"
)

// Draft is the reserved category used for unclassified entries in the drafts account.
const Draft = "Draft"

//go:embed taxonomy.toml
var defaultDocument []byte

var (
	ErrInvalidCategory = fmt.Errorf("%w: invalid category", domain.ErrValidation)
	ErrReservedName    = fmt.Errorf("%w: %q is reserved", domain.ErrValidation, Draft)
)

type document struct {
	Expense map[string][]string `toml:"expense"`
	Income  struct {
		Categories []string `toml:"categories"`
	} `toml:"income"`
}

// Taxonomy is an immutable set of valid category pairs.
type Taxonomy struct {
	expense map[string]map[string]struct{}
	income  map[string]struct{}
}

var (
	defaultOnce     sync.Once
	defaultTaxonomy *Taxonomy
)

// Default returns the taxonomy embedded in the binary.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := Parse(defaultDocument)
		if err != nil {
			panic(fmt.Sprintf("category: embedded taxonomy is invalid: %v", err))
		}
		defaultTaxonomy = t
	})
	return defaultTaxonomy
}

// Load reads a taxonomy document from path. An empty path yields Default.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML taxonomy document.
func Parse(data []byte) (*Taxonomy, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	t := &Taxonomy{
		expense: make(map[string]map[string]struct{}, len(doc.Expense)),
		income:  make(map[string]struct{}, len(doc.Income.Categories)),
	}
	for c1, subs := range doc.Expense {
		if c1 == Draft {
			return nil, ErrReservedName
		}
		set := make(map[string]struct{}, len(subs))
		for _, c2 := range subs {
			if c2 == Draft {
				return nil, ErrReservedName
			}
			set[c2] = struct{}{}
		}
		t.expense[c1] = set
	}
	for _, c1 := range doc.Income.Categories {
		if c1 == Draft {
			return nil, ErrReservedName
		}
		t.income[c1] = struct{}{}
	}
	return t, nil
}

// IsDraft reports whether either category is the Draft sentinel.
func IsDraft(category1, category2 string) bool {
	return category1 == Draft || category2 == Draft
}

// ValidateExpense accepts a known category1/category2 pair or Draft/Draft.
func (t *Taxonomy) ValidateExpense(category1, category2 string) error {
	if IsDraft(category1, category2) {
		if category1 == Draft && category2 == Draft {
			return nil
		}
		return fmt.Errorf("%w: %q must be used for both categories", ErrInvalidCategory, Draft)
	}
	subs, ok := t.expense[category1]
	if !ok {
		return fmt.Errorf("%w: unknown expense category %q", ErrInvalidCategory, category1)
	}
	if _, ok := subs[category2]; !ok {
		return fmt.Errorf("%w: %q is not a subcategory of %q", ErrInvalidCategory, category2, category1)
	}
	return nil
}

// ValidateIncome accepts a known category1 or Draft. Incomes carry no category2.
func (t *Taxonomy) ValidateIncome(category1, category2 string) error {
	if category2 != "" {
		return fmt.Errorf("%w: incomes have no subcategory", ErrInvalidCategory)
	}
	if category1 == Draft {
		return nil
	}
	if _, ok := t.income[category1]; !ok {
		return fmt.Errorf("%w: unknown income category %q", ErrInvalidCategory, category1)
	}
	return nil
}

// Expense returns the expense taxonomy with sorted subcategories.
func (t *Taxonomy) Expense() map[string][]string {
	out := make(map[string][]string, len(t.expense))
	for c1, subs := range t.expense {
		list := make([]string, 0, len(subs))
		for c2 := range subs {
			list = append(list, c2)
		}
		sort.Strings(list)
		out[c1] = list
	}
	return out
}

// Income returns the sorted income categories.
func (t *Taxonomy) Income() []string {
	out := make([]string, 0, len(t.income))
	for c1 := range t.income {
		out = append(out, c1)
	}
	sort.Strings(out)
	return out
}
