package email

const (
	subjectWelcome             = "Your account is ready"
	subjectLeadAssignedFmt     = "New lead assigned: %s"
	subjectLeaveDecidedFmt     = "Your leave request was %s"
	subjectDocumentReviewedFmt = "Your document was %s"
)
