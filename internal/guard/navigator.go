package guard

import (
	"sync"

	"github.com/willfong/bankfront/internal/models"
)

// PrincipalSource is the read side of the session
type PrincipalSource interface {
	Current() models.Principal
	Ready() bool
}

// Navigator tracks the surface on screen and re-evaluates it on every
// navigation and every session change.
type Navigator struct {
	mu         sync.Mutex
	src        PrincipalSource
	surface    Surface
	last       Decision
	lastKind   models.PrincipalKind
	onRedirect func(Decision)
}

// NewNavigator creates a navigator. onRedirect, when set, is called for every
// decision that leaves the current surface.
func NewNavigator(src PrincipalSource, onRedirect func(Decision)) *Navigator {
	return &Navigator{src: src, onRedirect: onRedirect}
}

// Navigate moves to surface s and returns the decision for it
func (n *Navigator) Navigate(s Surface) Decision {
	n.mu.Lock()
	n.surface = s
	d := n.evaluateLocked()
	n.mu.Unlock()

	n.notify(d)
	return d
}

// Reevaluate checks the current surface again, e.g. after a logout
func (n *Navigator) Reevaluate() Decision {
	n.mu.Lock()
	d := n.evaluateLocked()
	n.mu.Unlock()

	n.notify(d)
	return d
}

// Current returns the last decision without re-evaluating
func (n *Navigator) Current() Decision {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

func (n *Navigator) evaluateLocked() Decision {
	p := n.src.Current()
	d := Decide(p, n.src.Ready(), n.surface)

	// Losing the session mid-use sends the user back to the entry point of the role they had
	if d.State == StateRedirectingUnauthenticated && n.lastKind != models.KindSignedOut {
		d.RedirectTo = EntryPoint(n.lastKind)
	}
	if d.State != StateLoading {
		n.lastKind = p.Kind
	}
	n.last = d
	return d
}

func (n *Navigator) notify(d Decision) {
	if n.onRedirect == nil {
		return
	}
	if d.State == StateRedirectingUnauthenticated || d.State == StateRedirectingInsufficientRole {
		n.onRedirect(d)
	}
}
