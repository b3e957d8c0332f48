package crudtests

import (
	"github.com/JohnPlummer/jp-go-restcheck/objects"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoLifecycleTests covers the create -> read -> update -> delete path of a
// single entity.
func DoLifecycleTests(t *T) {
	t.Run("create assigns an identifier and is readable", doCreateAndReadBack)
	t.Run("create sets the created timestamp", doCreateTimestamp)
	t.Run("update is a full replace", doUpdateFullReplace)
	t.Run("update sets the updated timestamp", doUpdateTimestamp)
	t.Run("delete removes the entity", doDeleteThenRead)
	t.Run("list includes a created entity", doListContains)
}

func doCreateAndReadBack(t *T) {
	data := objects.Attributes{
		"source":  ldvalue.String("restcheck"),
		"version": ldvalue.Int(1),
	}
	created := t.createForTest("lifecycle roundtrip", data)
	defer t.deleteQuietly(created.ID)

	res, err := t.env.client.GetByID(t.ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed at the network level: %s", err)
	}
	if !res.OK() {
		t.Fatalf("get of freshly created %s returned status %d", created.ID, res.StatusCode)
	}
	if res.Object == nil {
		t.Fatalf("get of %s returned status %d with no decodable body", created.ID, res.StatusCode)
	}
	if res.Object.ID != created.ID {
		t.Errorf("expected id %q, got %q", created.ID, res.Object.ID)
	}
	if res.Object.Name != "lifecycle roundtrip" {
		t.Errorf("expected name %q, got %q", "lifecycle roundtrip", res.Object.Name)
	}
	if !sameAttributes(data, res.Object.Data) {
		t.Errorf("attribute map changed across create/read: sent %v, got %v", data, res.Object.Data)
	}
}

func doCreateTimestamp(t *T) {
	created := t.createForTest("timestamp on create", nil)
	defer t.deleteQuietly(created.ID)

	if created.CreatedAt == nil {
		t.Errorf("createdAt missing immediately after create")
	}
	if created.UpdatedAt != nil && created.CreatedAt != nil && *created.UpdatedAt < *created.CreatedAt {
		t.Errorf("updatedAt %v earlier than createdAt %v on a fresh entity", *created.UpdatedAt, *created.CreatedAt)
	}
}

func doUpdateFullReplace(t *T) {
	before := objects.Attributes{
		"source":  ldvalue.String("restcheck"),
		"version": ldvalue.Int(1),
		"active":  ldvalue.Bool(true),
	}
	created := t.createForTest("full replace", before)
	defer t.deleteQuietly(created.ID)

	after := objects.Attributes{
		"source":  ldvalue.String("restcheck"),
		"version": ldvalue.Int(2),
		"active":  ldvalue.Bool(false),
		"note":    ldvalue.String("updated"),
	}
	res, err := t.env.client.Update(t.ctx, created.ID, "full replace", after)
	if err != nil {
		t.Fatalf("update failed at the network level: %s", err)
	}
	if !res.OK() || res.Object == nil {
		t.Fatalf("update returned status %d, body: %s", res.StatusCode, string(res.Raw))
	}
	if !sameAttributes(after, res.Object.Data) {
		t.Errorf("update was not a full replace: sent %v, got %v", after, res.Object.Data)
	}

	// Read back to make sure the replace stuck and nothing stale leaked in.
	read, err := t.env.client.GetByID(t.ctx, created.ID)
	if err != nil {
		t.Fatalf("get after update failed at the network level: %s", err)
	}
	if read.Object == nil {
		t.Fatalf("get after update returned status %d with no decodable body", read.StatusCode)
	}
	if !sameAttributes(after, read.Object.Data) {
		t.Errorf("post-update read does not match update payload: sent %v, got %v", after, read.Object.Data)
	}
}

func doUpdateTimestamp(t *T) {
	created := t.createForTest("timestamp on update", objects.Attributes{
		"version": ldvalue.Int(1),
	})
	defer t.deleteQuietly(created.ID)

	res, err := t.env.client.Update(t.ctx, created.ID, "timestamp on update", objects.Attributes{
		"version": ldvalue.Int(2),
	})
	if err != nil {
		t.Fatalf("update failed at the network level: %s", err)
	}
	if !res.OK() || res.Object == nil {
		t.Fatalf("update returned status %d, body: %s", res.StatusCode, string(res.Raw))
	}
	if res.Object.UpdatedAt == nil {
		t.Fatalf("updatedAt missing after update")
	}
	if created.CreatedAt != nil && *res.Object.UpdatedAt < *created.CreatedAt {
		t.Errorf("updatedAt %v earlier than createdAt %v", *res.Object.UpdatedAt, *created.CreatedAt)
	}
}

func doDeleteThenRead(t *T) {
	created := t.createForTest("delete target", nil)
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			t.deleteQuietly(created.ID)
		}
	}()

	res, err := t.env.client.Delete(t.ctx, created.ID)
	if err != nil {
		t.Fatalf("delete failed at the network level: %s", err)
	}
	if !res.Succeeded() {
		t.Fatalf("delete of %s returned status %d", created.ID, res.StatusCode)
	}
	cleanupNeeded = false
	t.Debug("delete message: %q", res.Message)

	read, err := t.env.client.GetByID(t.ctx, created.ID)
	if err != nil {
		t.Fatalf("get after delete failed at the network level: %s", err)
	}
	if read.OK() {
		t.Errorf("get of deleted %s reported success (status %d)", created.ID, read.StatusCode)
	}
}

func doListContains(t *T) {
	created := t.createForTest("list member", nil)
	defer t.deleteQuietly(created.ID)

	res, err := t.env.client.List(t.ctx)
	if err != nil {
		t.Fatalf("list failed at the network level: %s", err)
	}
	if !res.OK() {
		t.Fatalf("list returned status %d", res.StatusCode)
	}
	if !res.Decoded {
		t.Fatalf("list returned status %d with an undecodable body", res.StatusCode)
	}
	for _, obj := range res.Objects {
		if obj.ID == created.ID {
			return
		}
	}
	t.Errorf("created entity %s not present in listed collection of %d objects", created.ID, len(res.Objects))
}
