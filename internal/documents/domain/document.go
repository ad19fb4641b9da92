// Package domain holds the closed value types of the documents bounded context.
package domain

// Kind categorizes an employee document.
type Kind string

const (
	KindIDProof      Kind = "IdProof"
	KindAddressProof Kind = "AddressProof"
	KindContract     Kind = "Contract"
	KindCertificate  Kind = "Certificate"
	KindOther        Kind = "Other"
)

// ValidKinds lists every accepted document kind.
var ValidKinds = map[Kind]bool{
	KindIDProof:      true,
	KindAddressProof: true,
	KindContract:     true,
	KindCertificate:  true,
	KindOther:        true,
}

// Status is the verification state of a document.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusVerified Status = "Verified"
	StatusRejected Status = "Rejected"
)

// ValidStatuses lists every accepted status value.
var ValidStatuses = map[Status]bool{
	StatusPending:  true,
	StatusVerified: true,
	StatusRejected: true,
}
