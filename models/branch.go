package models

import "strings"

// SyntheticBranchPrefix marks branch ids synthesized from store data. Such a
// branch never exists server-side; booking payloads referencing it must send
// the underlying store id instead.
const SyntheticBranchPrefix = "store-"

// Branch is a physical location where a booking is served. It is either a
// real upstream record or a stand-in synthesized from store-level data.
type Branch struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	OpeningTime  string   `json:"openingTime,omitempty"`
	ClosingTime  string   `json:"closingTime,omitempty"`
	WorkingDays  []string `json:"workingDays,omitempty"`
	IsMainBranch bool     `json:"isMainBranch"`
	StoreID      string   `json:"storeId,omitempty"`
}

// IsSynthetic reports whether this branch was derived from store data rather
// than fetched as a real branch record.
func (b Branch) IsSynthetic() bool {
	return strings.HasPrefix(b.ID, SyntheticBranchPrefix)
}

// Staff is an optional service provider, looked up per (entity, branch)
// pair. An empty roster is a valid state; assignment then happens upstream.
type Staff struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Role              string `json:"role,omitempty"`
	AssignedToService bool   `json:"assignedToService,omitempty"`
}

// BranchResolution is the outcome of the tiered branch lookup. Success false
// with a nil branch is non-fatal to the wizard.
type BranchResolution struct {
	Success bool    `json:"success"`
	Branch  *Branch `json:"branch"`
	Source  string  `json:"source,omitempty"`
}

// StaffResolution is the outcome of the staff lookup, independent of branch
// resolution.
type StaffResolution struct {
	Success bool    `json:"success"`
	Staff   []Staff `json:"staff"`
}
