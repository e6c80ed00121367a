package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_RecordIdentity_ShouldBeDeterministic(t *testing.T) {

	first := RecordIdentity("Acme", "Engineer", "SF")
	second := RecordIdentity("Acme", "Engineer", "SF")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func Test_RecordIdentity_ShouldIgnoreCaseAndWhitespace(t *testing.T) {

	base := RecordIdentity("Acme", "Engineer", "SF")

	assert.Equal(t, base, RecordIdentity("  Acme  ", "Engineer", "SF"))
	assert.Equal(t, base, RecordIdentity("ACME", "engineer", "sf"))
	assert.Equal(t, base, RecordIdentity("acme", "\tEngineer\n", " SF "))
}

func Test_RecordIdentity_DifferentTriples_ShouldDiffer(t *testing.T) {

	base := RecordIdentity("Acme", "Engineer", "SF")

	assert.NotEqual(t, base, RecordIdentity("Globex", "Engineer", "SF"))
	assert.NotEqual(t, base, RecordIdentity("Acme", "Senior Engineer", "SF"))
	assert.NotEqual(t, base, RecordIdentity("Acme", "Engineer", "NYC"))
}

func Test_NewRecord_LinkAndTimestamp_ShouldNotAffectIdentity(t *testing.T) {

	first := NewRecord("Acme", "Engineer", "SF", "https://acme.example/jobs/1", "https://acme.example/careers")
	time.Sleep(time.Millisecond)
	second := NewRecord("Acme", "Engineer", "SF", "https://acme.example/jobs/other", "https://acme.example/careers")

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.Link, second.Link)
}

func Test_NewRecord_ShouldTrimExtractedText(t *testing.T) {

	record := NewRecord("Acme", "  Engineer ", "\nSF ", "", "https://acme.example/careers")

	assert.Equal(t, "Engineer", record.Title)
	assert.Equal(t, "SF", record.Location)
	assert.Equal(t, RecordIdentity("Acme", "Engineer", "SF"), record.ID)
}
