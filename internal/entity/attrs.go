package entity

import "github.com/roach88/veritas/internal/ir"

// Internal attributes stripped from a materialized entity's property map
// before classification: they describe the entity's own bookkeeping
// (identity, ident, entity-ness, ownership) rather than user data.
var (
	AttrDBID    = ir.NewKeyword("db/id")
	AttrDBIdent = ir.NewKeyword("db/ident")
	AttrEntity  = ir.NewKeyword("a/entity")
	AttrOwns    = ir.NewKeyword("a/owns")
)

// AttrRest names the cons cell's tail attribute. AttrType/AttrList mark an
// entity as the empty list sentinel rather than a populated cons cell.
// AttrNil and AttrEmptyList are value-position sentinels standing in for
// "no value" and "the empty sequence" respectively, since a triple's
// object position cannot itself be absent.
var (
	AttrRest      = ir.NewKeyword("a/rest")
	AttrType      = ir.NewKeyword("a/type")
	AttrList      = ir.NewKeyword("a/list")
	AttrNil       = ir.NewKeyword("a/nil")
	AttrEmptyList = ir.NewKeyword("a/empty-list")
)

// AttrID names the user-facing identifier attribute the ident resolver
// falls back to after :db/ident.
var AttrID = ir.NewKeyword("id")

// isFirstAttr reports whether k is a cons cell's "first" key: bare
// ":a/first", or ":a/first" followed by a run of digits (":a/first0",
// ":a/first12", ...), used when a single cell packs more than one
// positional value ahead of its :a/rest tail.
func isFirstAttr(k ir.Keyword) bool {
	const prefix = "a/first"
	s := k.String()
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return false
	}
	suffix := s[len(prefix):]
	if suffix == "" {
		return true
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isInternalAttr(k ir.Value) bool {
	return k == AttrDBID || k == AttrDBIdent || k == AttrEntity || k == AttrOwns
}
