package transform

import (
	"sort"

	"github.com/pkg/errors"
)

var builtin = []Transformer{
	DeflateCompress{},
	DeflateDecompress{},
	GzipCompress{},
	GzipDecompress{},
}

var inverses = map[string]string{
	"deflatecompress":   "deflatedecompress",
	"deflatedecompress": "deflatecompress",
	"gzipcompress":      "gzipdecompress",
	"gzipdecompress":    "gzipcompress",
}

// All returns every registered transformer, sorted by ID.
func All() []Transformer {
	all := make([]Transformer, len(builtin))
	copy(all, builtin)
	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })
	return all
}

// ByID returns the transformer with the given ID.
func ByID(id string) (Transformer, error) {
	for _, t := range builtin {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownTransformer, "%q", id)
}

// Inverse returns the transformer that undoes t, if there is one.
func Inverse(t Transformer) (Transformer, bool) {
	id, ok := inverses[t.ID()]
	if !ok {
		return nil, false
	}
	inv, err := ByID(id)
	if err != nil {
		return nil, false
	}
	return inv, true
}

// ByCategory returns the transformers in category c, sorted by ID.
func ByCategory(c Category) []Transformer {
	var list []Transformer
	for _, t := range All() {
		if t.Category() == c {
			list = append(list, t)
		}
	}
	return list
}

// Categorized groups every transformer by category. Each group is sorted
// by ID.
func Categorized() map[Category][]Transformer {
	m := make(map[Category][]Transformer)
	for _, t := range All() {
		m[t.Category()] = append(m[t.Category()], t)
	}
	return m
}
