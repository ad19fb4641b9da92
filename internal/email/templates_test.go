package email

import (
	"strings"
	"testing"
)

func TestRenderLeadAssignedTemplate(t *testing.T) {
	content, err := renderEmailTemplate("lead_assigned.html", leadAssignedEmailData{
		baseEmailData: baseEmailData{Title: "New lead assigned", Heading: "New lead assigned"},
		AssigneeName:  "Alice",
		LeadName:      "Acme Corp",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(content, "Alice") || !strings.Contains(content, "Acme Corp") {
		t.Fatalf("rendered email is missing data: %s", content)
	}
	if strings.Contains(content, "CTALabel") {
		t.Fatalf("template placeholders leaked into output")
	}
}

func TestRenderDocumentReviewedOmitsEmptyNote(t *testing.T) {
	content, err := renderEmailTemplate("document_reviewed.html", documentReviewedEmailData{
		baseEmailData: baseEmailData{Title: "Document review update", Heading: "Document review update"},
		UserName:      "Bob",
		Kind:          "IdProof",
		Status:        "Verified",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(content, "Reviewer note") {
		t.Fatalf("empty note must not render the note block")
	}
}

func TestRenderEscapesHTMLInUserData(t *testing.T) {
	content, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{Title: "Welcome", Heading: "Welcome", CTALabel: "Sign in", CTAURL: "https://portal.test/login"},
		UserName:      "<script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(content, "<script>") {
		t.Fatalf("user data was not escaped")
	}
}
