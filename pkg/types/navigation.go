package types

import (
	"context"
)

const (
	ModuleSafety       = "safety"
	ModuleTraining     = "training"
	ModuleDocuments    = "documents"
	ModuleRecords      = "records"
	ModuleOrgChart     = "orgchart"
	ModuleKPIs         = "kpis"
	ModuleSystemConfig = "system-config"
)

type NavigationItem struct {
	Key         string           `json:"key"`
	Name        string           `json:"name"`
	Href        string           `json:"href"`
	Children    []NavigationItem `json:"children,omitempty"`
	AuthzObject string           `json:"-"`
	AuthzAction string           `json:"-"`
}

// PermissionChecker answers whether the actor in ctx may act on a module.
type PermissionChecker interface {
	Can(ctx context.Context, module, action string) bool
}

// Modules is the catalog of console modules in sidebar order.
func Modules() []NavigationItem {
	item := func(key, name, href string) NavigationItem {
		return NavigationItem{Key: key, Name: name, Href: href, AuthzObject: key, AuthzAction: "view"}
	}
	return []NavigationItem{
		item(ModuleSafety, "Safety", "/safety"),
		item(ModuleTraining, "Training", "/training"),
		item(ModuleDocuments, "Documents", "/documents"),
		item(ModuleRecords, "Records", "/records"),
		item(ModuleOrgChart, "Org Chart", "/orgchart"),
		item(ModuleKPIs, "KPIs", "/kpis"),
		item(ModuleSystemConfig, "System Config", "/system-config"),
	}
}

// IsModule reports whether key names a catalog module.
func IsModule(key string) bool {
	for _, m := range Modules() {
		if m.Key == key {
			return true
		}
	}
	return false
}

// VisibleItems filters items (and their children) down to what checker allows.
// A nil checker leaves the items untouched.
func VisibleItems(ctx context.Context, items []NavigationItem, checker PermissionChecker) []NavigationItem {
	if checker == nil {
		return items
	}
	out := make([]NavigationItem, 0, len(items))
	for _, it := range items {
		if it.AuthzObject != "" && !checker.Can(ctx, it.AuthzObject, it.AuthzAction) {
			continue
		}
		if len(it.Children) > 0 {
			it.Children = VisibleItems(ctx, it.Children, checker)
		}
		out = append(out, it)
	}
	return out
}
