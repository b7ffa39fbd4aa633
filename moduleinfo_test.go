package jigsaw

import "testing"

func TestNewModuleInfoRejectsMismatchedDefaultView(t *testing.T) {
	id := mkid("a", "1")
	badView := NewModuleView(mkid("not-a", "1"))
	if _, err := NewModuleInfo(id, badView, nil, nil, nil); err == nil {
		t.Error("default view id must equal the module id")
	}
}

func TestNewModuleInfoRejectsViewNamedAfterModule(t *testing.T) {
	id := mkid("a", "1")
	defaultView := NewModuleView(id)
	selfView := NewModuleView(mkid("a", "1"))
	if _, err := NewModuleInfo(id, defaultView, []ModuleView{selfView}, nil, nil); err == nil {
		t.Error("a module should not be able to declare itself as a view")
	}
}

func TestNewModuleInfoRejectsViewVersionMismatch(t *testing.T) {
	id := mkid("a", "1")
	defaultView := NewModuleView(id)
	otherVersion := NewModuleView(mkid("a-compat", "2"))
	if _, err := NewModuleInfo(id, defaultView, []ModuleView{otherVersion}, nil, nil); err == nil {
		t.Error("every view must share the module's version")
	}
}

func TestModuleInfoAllViewsSortedAfterDefault(t *testing.T) {
	id := mkid("a", "1")
	defaultView := NewModuleView(id)
	v1 := NewModuleView(mkid("z-view", "1"))
	v2 := NewModuleView(mkid("a-view", "1"))
	mi, err := NewModuleInfo(id, defaultView, []ModuleView{v1, v2}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	views := mi.AllViews()
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	if views[0].ID.Name != "a" {
		t.Errorf("first view should be the default view, got %s", views[0].ID.Name)
	}
	if views[1].ID.Name != "a-view" || views[2].ID.Name != "z-view" {
		t.Errorf("extra views should be sorted by name, got %s, %s", views[1].ID.Name, views[2].ID.Name)
	}
}

func TestModuleInfoAllClassNamesSortedUnion(t *testing.T) {
	id := mkid("a", "1")
	mi, err := NewModuleInfo(id, NewModuleView(id), nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	mi.PublicClasses["b.B"] = struct{}{}
	mi.InternalClasses["a.A"] = struct{}{}
	names := mi.AllClassNames()
	if len(names) != 2 || names[0] != "a.A" || names[1] != "b.B" {
		t.Errorf("unexpected class names: %v", names)
	}
}
