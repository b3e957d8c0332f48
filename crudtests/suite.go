// Package crudtests is the black-box scenario suite for the remote objects
// collection. Every scenario creates its own entities and deletes them on
// all exit paths, so repeated runs leave no residue in the remote system.
package crudtests

import (
	"context"

	"github.com/JohnPlummer/jp-go-restcheck/fixtures"
	"github.com/JohnPlummer/jp-go-restcheck/harness"
	"github.com/JohnPlummer/jp-go-restcheck/objects"
)

type env struct {
	client *objects.Client
	loader *fixtures.Loader
}

// T is the scenario-side handle: harness reporting plus the suite's shared
// collaborators and the run's cancellation context.
type T struct {
	*harness.Context
	ctx context.Context
	env *env
}

// Run executes a named child scenario.
func (t *T) Run(name string, action func(*T)) {
	t.Context.Run(name, func(c *harness.Context) {
		action(&T{Context: c, ctx: t.ctx, env: t.env})
	})
}

// RunSuite runs every scenario against the given client and returns the
// accumulated results.
func RunSuite(
	ctx context.Context,
	client *objects.Client,
	loader *fixtures.Loader,
	filter harness.Filter,
	reporter harness.Reporter,
) harness.Results {
	return harness.Run(filter, reporter, func(c *harness.Context) {
		t := &T{
			Context: c,
			ctx:     ctx,
			env:     &env{client: client, loader: loader},
		}

		t.Run("lifecycle", DoLifecycleTests)
		t.Run("edge cases", DoEdgeCaseTests)
	})
}

// createForTest creates an object and aborts the scenario if the server did
// not assign an identifier. Callers own cleanup via deleteQuietly.
func (t *T) createForTest(name string, data objects.Attributes) *objects.Object {
	res, err := t.env.client.Create(t.ctx, name, data)
	if err != nil {
		t.Fatalf("create failed at the network level: %s", err)
	}
	t.Debug("create %q -> status %d body %s", name, res.StatusCode, string(res.Raw))
	if !res.OK() {
		t.Fatalf("create returned status %d, body: %s", res.StatusCode, string(res.Raw))
	}
	// A 2xx with a degenerate body is still a failed create; the id is the
	// contract signal of success.
	if res.Object == nil || res.Object.ID == "" {
		t.Fatalf("create returned status %d but no identifier, body: %s", res.StatusCode, string(res.Raw))
	}
	return res.Object
}

// deleteQuietly removes an entity during cleanup. Failures are logged, not
// asserted: cleanup must not mask the scenario's own outcome.
func (t *T) deleteQuietly(id string) {
	res, err := t.env.client.Delete(t.ctx, id)
	if err != nil {
		t.Debug("cleanup delete of %s failed: %s", id, err)
		return
	}
	if !res.Succeeded() {
		t.Debug("cleanup delete of %s returned status %d", id, res.StatusCode)
	}
}

// sameAttributes compares two attribute maps for exact key and typed-value
// equality.
func sameAttributes(a, b objects.Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}
