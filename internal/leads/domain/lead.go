// Package domain holds the closed value types of the leads bounded context.
package domain

// Priority is the lead priority level.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ValidPriorities lists every accepted priority value.
var ValidPriorities = map[Priority]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

// Source describes where a lead entered the system.
type Source string

const (
	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceManual   Source = "Manual"
	SourceImport   Source = "Import"
	SourceOther    Source = "Other"
)

// ValidSources lists every accepted lead source value.
var ValidSources = map[Source]bool{
	SourceWebsite:  true,
	SourceReferral: true,
	SourceManual:   true,
	SourceImport:   true,
	SourceOther:    true,
}

// HistorySource describes the mechanism that produced an assignment history entry.
type HistorySource string

const (
	HistoryManual   HistorySource = "Manual"
	HistoryBulk     HistorySource = "Bulk"
	HistoryImport   HistorySource = "Import"
	HistoryReimport HistorySource = "Reimport"
	HistorySystem   HistorySource = "System"
)

// DuplicateReason codes why an imported row was quarantined.
type DuplicateReason string

const (
	ReasonEmailExists      DuplicateReason = "EMAIL_EXISTS"
	ReasonPhoneExists      DuplicateReason = "PHONE_EXISTS"
	ReasonEmailPhoneExists DuplicateReason = "EMAIL_PHONE_EXISTS"
)

const (
	// StatusNew is the status assigned to freshly imported or created leads.
	StatusNew = "New"

	// FolderDuplicate marks a pre-existing lead that an import row collided
	// with, flagging it for downstream triage.
	FolderDuplicate = "Duplicate"

	// FolderUncategorized is the display label for an empty folder.
	FolderUncategorized = "Uncategorized"
)
