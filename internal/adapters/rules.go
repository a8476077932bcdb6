package adapters

import (
	"github.com/cockroachdb/errors"

	"go2ts/internal/adapter"
	"go2ts/internal/mapping"
)

// Rules applies a rule file: its type mappings and annotations are
// registered in the Context, its erased types join the parent's set and its
// call templates replace matching calls.
type Rules struct {
	*adapter.Base

	erased []string
	// calls maps owner and member to a call template.
	calls map[string]map[string]string
}

var _ adapter.Adapter = (*Rules)(nil)

// NewRules stacks the rules of rf on parent. A nil rf adds an empty layer.
func NewRules(parent adapter.Adapter, rf *mapping.RuleFile) (*Rules, error) {
	base, err := adapter.NewBase(parent)
	if err != nil {
		return nil, err
	}

	r := &Rules{Base: base, calls: make(map[string]map[string]string)}
	if rf == nil {
		return r, nil
	}

	r.AddTypeMappings(rf.TypeMappings)

	for i, rule := range rf.Annotations {
		if err := r.AddAnnotation(rule.Descriptor(), rule.Filters...); err != nil {
			return nil, errors.Wrapf(err, "annotation rule %d", i)
		}
	}

	for _, call := range rf.Calls {
		owner := call.Owner()
		if r.calls[owner] == nil {
			r.calls[owner] = make(map[string]string)
		}

		r.calls[owner][call.Member()] = call.Print
	}

	r.erased = rf.ErasedTypes

	return r, nil
}

// ErasedTypes implements adapter.Adapter.
func (r *Rules) ErasedTypes() (map[string]struct{}, error) {
	return mergeErased(r.Parent(), r.erased...)
}

// SubstituteMethodInvocation applies the call template registered for the
// resolved target.
func (r *Rules) SubstituteMethodInvocation(inv adapter.Invocation) bool {
	if inv.Resolved() {
		if tmpl, ok := r.calls[inv.OwnerName][inv.Member]; ok {
			printTemplate(r.Base, tmpl, inv.Receiver(), inv.Args())
			return true
		}
	}

	return r.Base.SubstituteMethodInvocation(inv)
}
