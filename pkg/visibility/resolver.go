package visibility

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/expr"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// Result is a tri-state visibility decision
type Result int

const (
	// Unknown means no opinion: callers leave existing state alone
	Unknown Result = iota
	False
	True
)

// FromBool converts a boolean decision
func FromBool(b bool) Result {
	if b {
		return True
	}
	return False
}

// Known reports whether the resolver reached a decision
func (r Result) Known() bool { return r != Unknown }

func (r Result) String() string {
	switch r {
	case True:
		return "visible"
	case False:
		return "hidden"
	}
	return "unknown"
}

// Special keys compared against the selection rather than scope properties
const (
	KeyHair      = "Hair"
	KeyCharacter = "Character"
	KeyOutfit    = "Outfit"
)

// Resolver decides visibility for one rig under one selection
type Resolver struct {
	selection types.Selection
	naming    config.Naming
	character *types.Scope
	outfit    *types.Scope
	logger    zerolog.Logger
}

// New returns a resolver bound to the active scopes of rig
func New(rig *scene.Rig, sel types.Selection, naming config.Naming) *Resolver {
	return &Resolver{
		selection: sel,
		naming:    naming,
		character: rig.Character(sel.Character),
		outfit:    rig.Outfit(sel.Outfit),
		logger:    logging.WithRig("visibility", rig.Name),
	}
}

// ResolveObject resolves an object from its custom properties
func (r *Resolver) ResolveObject(o *scene.Object) Result {
	return r.Resolve(o.Name, o.Props)
}

// Resolve decides visibility for an item carrying the given metadata.
//
// An item with both match keys and an expression is gated by the match: a
// match that does not pass, including one that could not be decided, hides
// the item without evaluating the expression.
func (r *Resolver) Resolve(item string, props *types.Scope) Result {
	_, hasExpr := props.Get(r.naming.ExpressionKey)
	hasMatch := props.Has(KeyHair) || props.Has(KeyCharacter) || props.Has(KeyOutfit)

	switch {
	case hasExpr && hasMatch:
		if r.match(item, props) != True {
			return False
		}
		return r.expression(item, props)
	case hasExpr:
		return r.expression(item, props)
	case hasMatch:
		return r.match(item, props)
	}
	return Unknown
}

func (r *Resolver) selectionEnv() expr.Vars {
	return expr.Vars{
		KeyCharacter: expr.String(r.selection.Character),
		KeyOutfit:    expr.String(r.selection.Outfit),
		KeyHair:      expr.String(r.selection.Hair),
	}
}

// Env returns the variables a free-form expression sees: the selection
// sentinels, then outfit properties, then character properties
func (r *Resolver) Env() expr.Env {
	return expr.Chain(r.selectionEnv(), expr.ScopeEnv{r.outfit, r.character})
}

func (r *Resolver) expression(item string, props *types.Scope) Result {
	src, _ := props.Get(r.naming.ExpressionKey)
	if src.Kind() != types.KindText {
		r.logger.Warn().Str("item", item).Str("kind", src.Kind().String()).
			Msg("expression must be text")
		return Unknown
	}
	v, err := expr.Evaluate(src.TextValue(), r.Env())
	if err != nil {
		r.logger.Warn().Err(err).Str("item", item).Msg("cannot evaluate visibility expression")
		return Unknown
	}
	return FromBool(v.Truthy())
}

// match evaluates the property-match rule: allow-lists for the special keys
// and per-property requirements against the character then outfit scope.
func (r *Resolver) match(item string, props *types.Scope) Result {
	allow := []struct {
		key, active string
	}{
		{KeyHair, r.selection.Hair},
		{KeyCharacter, r.selection.Character},
		{KeyOutfit, r.selection.Outfit},
	}
	for _, a := range allow {
		list, ok := props.Get(a.key)
		if !ok {
			continue
		}
		if !types.InList(list.TextValue(), a.active) {
			return False
		}
	}

	for _, scope := range []*types.Scope{r.character, r.outfit} {
		if scope == nil {
			continue
		}
		result := True
		props.Each(func(name string, req types.Value) {
			if result != True || r.skipKey(name) {
				return
			}
			current, ok := scope.Get(name)
			if !ok {
				return
			}
			result = r.requirement(item, name, req, current)
		})
		if result != True {
			return result
		}
	}
	return True
}

func (r *Resolver) skipKey(name string) bool {
	switch name {
	case KeyHair, KeyCharacter, KeyOutfit, r.naming.ExpressionKey:
		return true
	}
	return r.naming.IsReserved(name)
}

func (r *Resolver) requirement(item, name string, req, current types.Value) Result {
	switch req.Kind() {
	case types.KindInt:
		return FromBool(current.IsNumeric() && current.Number() == req.Number())
	case types.KindIntSet:
		return FromBool(current.IsNumeric() && req.Contains(current.Number()))
	case types.KindText:
		tmpl := req.TextValue()
		if !strings.Contains(tmpl, "#") {
			return True
		}
		placeholder, ok := expr.FromProperty(current)
		if !ok {
			return False
		}
		v, err := expr.Evaluate(tmpl, expr.Vars{"#": placeholder})
		if err != nil {
			r.logger.Warn().Err(err).Str("item", item).Str("property", name).
				Msg("invalid templated requirement")
			return Unknown
		}
		return FromBool(v.Truthy())
	}
	r.logger.Error().Str("item", item).Str("property", name).Str("kind", req.Kind().String()).
		Msg("unsupported requirement type")
	return False
}

// IsRule reports whether name uses the mask naming convention
func (r *Resolver) IsRule(name string) bool {
	return strings.HasPrefix(name, r.naming.MaskRulePrefix())
}

// ResolveName evaluates a name-encoded rule such as "M:Ciri_Default:Corset==1"
// and returns its weight. Booleans weigh 0 or 1. known is false when name is
// not a rule or the rule can not be decided.
func (r *Resolver) ResolveName(item, name string) (weight float64, known bool) {
	if !r.IsRule(name) || r.outfit == nil {
		return 0, false
	}

	fields := strings.Split(strings.TrimPrefix(name, r.naming.MaskRulePrefix()), r.naming.MaskDelimiter)
	scope := r.outfit
	var src string
	switch len(fields) {
	case 1:
		src = fields[0]
	case 2:
		src = fields[1]
		owners := types.SplitList(fields[0])
		if len(owners) > 0 {
			switch {
			case contains(owners, r.selection.Outfit):
				scope = r.outfit
			case contains(owners, r.selection.Character):
				scope = r.character
			default:
				return 0, true
			}
		}
		switch strings.TrimSpace(src) {
		case "True":
			return 1, true
		case "False":
			return 0, true
		}
	default:
		r.logger.Warn().Str("item", item).Str("name", name).Msg("malformed mask rule")
		return 0, false
	}

	v, err := expr.Evaluate(src, expr.ScopeEnv{scope})
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrUnresolvedName) {
			r.logger.Debug().Err(err).Str("item", item).Str("name", name).Msg("mask rule undecided")
		} else {
			r.logger.Warn().Err(err).Str("item", item).Str("name", name).Msg("invalid mask rule")
		}
		return 0, false
	}
	if n, ok := v.Float(); ok {
		return n, true
	}
	if v.Truthy() {
		return 1, true
	}
	return 0, true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
