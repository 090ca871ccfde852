package x12

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReportCleanFile(t *testing.T) {
	result := validateContent(t, sampleFile())

	var b strings.Builder
	require.NoError(t, WriteReport(&b, result))
	report := b.String()

	assert.Contains(t, report, "837P VALIDATION REPORT")
	assert.Contains(t, report, "Overall Status: VALID")
	assert.Contains(t, report, "Errors:   0")
	assert.Contains(t, report, "No validation issues found.")
	assert.NotContains(t, report, "VALIDATION ISSUES")
}

func TestWriteReportWithIssues(t *testing.T) {
	body := bodyReplace(sampleBody(), "DTP*431*", "DTP*431*D8*20251301")
	body = bodyReplace(body, "HI*", "HI*ZZ:J449")
	result := validateContent(t, wrap(body))

	var b strings.Builder
	require.NoError(t, WriteReport(&b, result))
	report := b.String()

	assert.Contains(t, report, "Overall Status: INVALID")
	assert.Contains(t, report, "Errors:   1")
	assert.Contains(t, report, "Warnings: 1")
	assert.Contains(t, report, "ERRORS (1):")
	assert.Contains(t, report, "WARNINGS (1):")
	assert.Contains(t, report, "Date month 13 is invalid")
	assert.Contains(t, report, "Diagnosis code qualifier 'ZZ' not standard")
	assert.Contains(t, report, ", Element 3")
}

func TestWriteReportIncludesContext(t *testing.T) {
	body := bodyReplace(sampleBody(), "NM1*40*", "NM1*XX*2*INSURANCE CO*****46*67890")
	msg, err := Read([]byte(wrap(body)))
	require.NoError(t, err)

	v := &Validator{}
	result := v.Validate(context.Background(), msg)

	var b strings.Builder
	require.NoError(t, WriteReport(&b, result))
	assert.Contains(t, b.String(), "Context: Valid codes: 1P, 2B, 36, 40, 41...")
}
