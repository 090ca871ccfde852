package x12

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validateContent(t *testing.T, content string) *ValidationResult {
	t.Helper()
	msg, err := Read([]byte(content))
	require.NoError(t, err)
	v := &Validator{}
	return v.Validate(context.Background(), msg)
}

func severityCount(result *ValidationResult, s Severity) int {
	return result.Summary()[s]
}

func TestValidateCleanFile(t *testing.T) {
	result := validateContent(t, sampleFile())

	assert.True(t, result.Valid())
	assert.Zero(t, severityCount(result, SeverityError))
	assert.Zero(t, severityCount(result, SeverityWarning))
	assert.Equal(t, len(sampleBody())+6, result.SegmentCount)
}

func TestValidateControlNumberMismatch(t *testing.T) {
	content := strings.Replace(sampleFile(), "IEA*1*000000001", "IEA*1*000000999", 1)
	result := validateContent(t, content)

	assert.False(t, result.Valid())
	errors := result.BySeverity(SeverityError)
	require.Len(t, errors, 1)
	assert.Equal(t, "IEA", errors[0].SegmentID)
	assert.Contains(t, errors[0].Message, "000000999")
	assert.Contains(t, errors[0].Message, "000000001")
}

func TestValidateTransactionControlMismatch(t *testing.T) {
	body := sampleBody()
	content := wrap(body)
	content = strings.Replace(content, "SE*26*0001", "SE*26*0002", 1)
	result := validateContent(t, content)

	assert.False(t, result.Valid())
	errors := result.BySeverity(SeverityError)
	require.Len(t, errors, 1)
	assert.Equal(t, "SE", errors[0].SegmentID)
	assert.Contains(t, errors[0].Message, "does not match ST")
}

func TestValidateDeclaredSegmentCount(t *testing.T) {
	content := strings.Replace(sampleFile(), "SE*26*0001", "SE*99*0001", 1)
	result := validateContent(t, content)

	assert.False(t, result.Valid())
	errors := result.BySeverity(SeverityError)
	require.Len(t, errors, 1)
	assert.Equal(t, "SE", errors[0].SegmentID)
	assert.Contains(t, errors[0].Message, "SE reports 99 segments but transaction set contains 26")
}

func TestValidateDeclaredGroupCounts(t *testing.T) {
	content := strings.Replace(sampleFile(), "GE*1*1", "GE*3*1", 1)
	result := validateContent(t, content)

	assert.False(t, result.Valid())
	errors := result.BySeverity(SeverityError)
	require.Len(t, errors, 1)
	assert.Contains(t, errors[0].Message, "GE reports 3 transaction sets but found 1")
}

func TestValidateMissingEnvelopes(t *testing.T) {
	// Body segments alone cannot be tokenized (no ISA header), so read
	// the full file and strip the envelopes afterwards.
	msg, err := Read([]byte(sampleFile()))
	require.NoError(t, err)

	var body []RawSegment
	for _, segment := range msg.Segments() {
		switch segment.ID() {
		case isaSegmentId, ieaSegmentId, gsSegmentId, geSegmentId, stSegmentId, seSegmentId:
			continue
		}
		body = append(body, segment)
	}
	stripped := &RawMessage{Delimiters: msg.Delimiters, segments: body}

	v := &Validator{}
	result := v.Validate(context.Background(), stripped)
	assert.False(t, result.Valid())

	var messages []string
	for _, issue := range result.BySeverity(SeverityError) {
		messages = append(messages, issue.Message)
	}
	assert.Contains(t, messages, "Missing ISA segment (required)")
	assert.Contains(t, messages, "Missing GS segment (required)")
	assert.Contains(t, messages, "Missing ST segment (required)")
}

func TestValidateEmptyMessage(t *testing.T) {
	msg := &RawMessage{}
	v := &Validator{}
	result := v.Validate(context.Background(), msg)

	assert.False(t, result.Valid())
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "FILE", result.Issues[0].SegmentID)
	assert.Equal(t, "No segments found in file", result.Issues[0].Message)
}

func TestValidateWrongTransactionSet(t *testing.T) {
	content := strings.Replace(sampleFile(), "ST*837*0001", "ST*835*0001", 1)
	result := validateContent(t, content)

	assert.False(t, result.Valid())
	found := false
	for _, issue := range result.BySeverity(SeverityError) {
		if strings.Contains(issue.Message, "Expected transaction set '837' but found '835'") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateUnrecognizedSegmentID(t *testing.T) {
	body := append(sampleBody(), "ZZZ*1*2")
	result := validateContent(t, wrap(body))

	assert.True(t, result.Valid())
	warnings := result.BySeverity(SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "ZZZ", warnings[0].SegmentID)
	assert.Contains(t, warnings[0].Message, "not recognized for 837P")
}

func TestValidateDemographicSegmentRecognized(t *testing.T) {
	// DMG carries subscriber demographics and must not trip the
	// unknown-segment warning the way a genuinely foreign ID does.
	result := validateContent(t, sampleFile())
	for _, issue := range result.BySeverity(SeverityWarning) {
		assert.NotEqual(t, "DMG", issue.SegmentID, issue.Message)
	}

	body := bodyReplace(sampleBody(), "DMG*", "DMG*D8*19751203*F")
	result = validateContent(t, wrap(body))
	assert.True(t, result.Valid())
	assert.Zero(t, severityCount(result, SeverityWarning))
}

func TestValidateInvalidEntityType(t *testing.T) {
	body := bodyReplace(sampleBody(), "NM1*85*", "NM1*85*9*GOOD HEALTH CLINIC*****XX*1234567890")
	result := validateContent(t, wrap(body))

	assert.False(t, result.Valid())
	errors := result.BySeverity(SeverityError)
	require.Len(t, errors, 1)
	assert.Equal(t, "NM1", errors[0].SegmentID)
	assert.Equal(t, 2, errors[0].ElementPosition)
	assert.Contains(t, errors[0].Message, "Invalid entity type qualifier '9'")
}

func TestValidateEmptyEntityName(t *testing.T) {
	body := bodyReplace(sampleBody(), "NM1*40*", "NM1*40*2**")
	result := validateContent(t, wrap(body))

	assert.False(t, result.Valid())
	errors := result.BySeverity(SeverityError)
	require.Len(t, errors, 1)
	assert.Equal(t, "Entity name is required but empty", errors[0].Message)
	assert.Equal(t, 3, errors[0].ElementPosition)
}

func TestValidateUnknownEntityCode(t *testing.T) {
	body := bodyReplace(sampleBody(), "NM1*40*", "NM1*XX*2*INSURANCE CO*****46*67890")
	result := validateContent(t, wrap(body))

	warnings := result.BySeverity(SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "Entity identifier code 'XX' not recognized")
	assert.Contains(t, warnings[0].Context, "Valid codes")
}

func TestValidateClaimAmountNotNumeric(t *testing.T) {
	body := bodyReplace(sampleBody(), "CLM*", "CLM*CLAIM001*ABC***11:B:1*Y*A*Y*Y")
	result := validateContent(t, wrap(body))

	assert.False(t, result.Valid())
	found := false
	for _, issue := range result.BySeverity(SeverityError) {
		if strings.Contains(issue.Message, "Claim amount 'ABC' is not a valid number") {
			found = true
			assert.Equal(t, 2, issue.ElementPosition)
		}
	}
	assert.True(t, found)
}

func TestValidateClaimAmountZero(t *testing.T) {
	body := bodyReplace(sampleBody(), "CLM*", "CLM*CLAIM001*0***11:B:1*Y*A*Y*Y")
	// Drop service lines so only the amount warning fires.
	body = bodyWithout(body, "SV1*")
	result := validateContent(t, wrap(body))

	assert.True(t, result.Valid())
	warnings := result.BySeverity(SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "should be positive")
}

func TestValidateFacilityCodeShape(t *testing.T) {
	body := bodyReplace(sampleBody(), "CLM*", "CLM*CLAIM001*250.00***ABC:B:1*Y*A*Y*Y")
	result := validateContent(t, wrap(body))

	warnings := result.BySeverity(SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "Facility code 'ABC' should be 2 digits")
}

func TestValidateDateMonthOutOfRange(t *testing.T) {
	body := bodyReplace(sampleBody(), "DTP*431*", "DTP*431*D8*20251301")
	result := validateContent(t, wrap(body))

	assert.False(t, result.Valid())
	errors := result.BySeverity(SeverityError)
	require.Len(t, errors, 1)
	assert.Equal(t, "DTP", errors[0].SegmentID)
	assert.Equal(t, 3, errors[0].ElementPosition)
	assert.Equal(t, "Date month 13 is invalid", errors[0].Message)
}

func TestValidateDateChecksAreIndependent(t *testing.T) {
	// Month and day both out of range produce two separate errors.
	body := bodyReplace(sampleBody(), "DTP*431*", "DTP*431*D8*20259941")
	result := validateContent(t, wrap(body))

	errors := result.BySeverity(SeverityError)
	require.Len(t, errors, 2)
	assert.Equal(t, "Date month 99 is invalid", errors[0].Message)
	assert.Equal(t, "Date day 41 is invalid", errors[1].Message)
}

func TestValidateDateUnusualYear(t *testing.T) {
	body := bodyReplace(sampleBody(), "DTP*431*", "DTP*431*D8*18990810")
	result := validateContent(t, wrap(body))

	assert.True(t, result.Valid())
	warnings := result.BySeverity(SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Date year 1899 seems unusual", warnings[0].Message)
}

func TestValidateDateNotCalendarShaped(t *testing.T) {
	body := bodyReplace(sampleBody(), "DTP*431*", "DTP*431*D8*2025-08-10")
	result := validateContent(t, wrap(body))

	assert.False(t, result.Valid())
	errors := result.BySeverity(SeverityError)
	require.Len(t, errors, 1)
	assert.Contains(t, errors[0].Message, "not in CCYYMMDD format")
}

func TestValidateDateRangeQualifierSkipsCalendarCheck(t *testing.T) {
	body := bodyReplace(sampleBody(), "DTP*431*", "DTP*434*RD8*20250810-20250812")
	result := validateContent(t, wrap(body))

	assert.True(t, result.Valid())
	assert.Zero(t, severityCount(result, SeverityWarning))
}

func TestValidateDiagnosisQualifier(t *testing.T) {
	body := bodyReplace(sampleBody(), "HI*", "HI*ZZ:J449")
	result := validateContent(t, wrap(body))

	warnings := result.BySeverity(SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "Diagnosis code qualifier 'ZZ' not standard")
}

func TestValidateDiagnosisEmptyCode(t *testing.T) {
	body := bodyReplace(sampleBody(), "HI*", "HI*ABK:")
	result := validateContent(t, wrap(body))

	assert.False(t, result.Valid())
	errors := result.BySeverity(SeverityError)
	require.Len(t, errors, 1)
	assert.Equal(t, "Diagnosis code is empty", errors[0].Message)
}

func TestValidateDiagnosisWithoutCompositeIsSkipped(t *testing.T) {
	body := bodyReplace(sampleBody(), "HI*", "HI*J449")
	result := validateContent(t, wrap(body))

	assert.True(t, result.Valid())
	assert.Zero(t, severityCount(result, SeverityWarning))
}

func TestValidateStrictComposites(t *testing.T) {
	body := bodyReplace(sampleBody(), "HI*", "HI*J449")
	msg, err := Read([]byte(wrap(body)))
	require.NoError(t, err)

	v := &Validator{StrictComposites: true}
	result := v.Validate(context.Background(), msg)

	assert.True(t, result.Valid())
	warnings := result.BySeverity(SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "HI", warnings[0].SegmentID)
}

func TestValidateServiceLineCharge(t *testing.T) {
	body := bodyReplace(sampleBody(), "SV1*HC:99213*", "SV1*HC:99213*BAD*UN*1**11")
	result := validateContent(t, wrap(body))

	assert.False(t, result.Valid())
	found := false
	for _, issue := range result.BySeverity(SeverityError) {
		if strings.Contains(issue.Message, "Line item charge 'BAD' is not a valid number") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateServiceLineUnits(t *testing.T) {
	body := bodyReplace(sampleBody(), "SV1*HC:99213*", "SV1*HC:99213*100.00*UN*0**11")
	// Bring the claim total in line so only the unit warning fires.
	body = bodyReplace(body, "CLM*", "CLM*CLAIM001*250.00***11:B:1*Y*A*Y*Y")
	result := validateContent(t, wrap(body))

	assert.True(t, result.Valid())
	warnings := result.BySeverity(SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "Service units should be positive")
}

func TestValidateMissingSubscriber(t *testing.T) {
	body := bodyWithout(sampleBody(), "NM1*IL*")
	result := validateContent(t, wrap(body))

	assert.False(t, result.Valid())
	var messages []string
	for _, issue := range result.BySeverity(SeverityError) {
		messages = append(messages, issue.Message)
	}
	assert.Contains(t, messages, "Missing required Subscriber/Insured (NM1*IL)")
}

func TestValidateMissingBillingProvider(t *testing.T) {
	body := bodyWithout(sampleBody(), "NM1*85*")
	result := validateContent(t, wrap(body))

	assert.False(t, result.Valid())
	var messages []string
	for _, issue := range result.BySeverity(SeverityError) {
		messages = append(messages, issue.Message)
	}
	assert.Contains(t, messages, "Missing required Billing Provider (NM1*85)")
}

func TestValidateMissingClaim(t *testing.T) {
	body := bodyWithout(sampleBody(), "CLM*")
	result := validateContent(t, wrap(body))

	assert.False(t, result.Valid())
	var messages []string
	for _, issue := range result.BySeverity(SeverityError) {
		messages = append(messages, issue.Message)
	}
	assert.Contains(t, messages, "Missing required CLM (Claim Information) segment")
}

func TestValidateClaimTotalTolerance(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		warns  bool
	}{
		{"exact match", "250.00", false},
		{"within tolerance", "250.01", false},
		{"above tolerance", "250.02", true},
		{"well off", "300.00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := bodyReplace(sampleBody(), "CLM*",
				"CLM*CLAIM001*"+tt.amount+"***11:B:1*Y*A*Y*Y")
			result := validateContent(t, wrap(body))

			assert.True(t, result.Valid())
			warnings := result.BySeverity(SeverityWarning)
			if tt.warns {
				require.Len(t, warnings, 1)
				assert.Contains(t, warnings[0].Message, "does not match service line total ($250.00)")
				assert.Equal(t, 2, warnings[0].ElementPosition)
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}

func TestValidateToleranceSkippedWithoutServiceLines(t *testing.T) {
	body := bodyWithout(sampleBody(), "SV1*")
	result := validateContent(t, wrap(body))

	assert.True(t, result.Valid())
	assert.Zero(t, severityCount(result, SeverityWarning))
}

func TestValidateCancelledContext(t *testing.T) {
	msg, err := Read([]byte(sampleFile()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := &Validator{}
	result := v.Validate(ctx, msg)
	assert.Empty(t, result.Issues)
	assert.Equal(t, len(sampleBody())+6, result.SegmentCount)
}

func TestSeverityText(t *testing.T) {
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "INFO", SeverityInfo.String())

	text, err := SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "WARNING", string(text))
}

func TestValidationIssueString(t *testing.T) {
	issue := ValidationIssue{
		Severity:        SeverityError,
		SegmentID:       "DTP",
		SegmentNumber:   12,
		ElementPosition: 3,
		Message:         "Date month 13 is invalid",
	}
	assert.Equal(t, "[ERROR] DTP segment 12 element 3: Date month 13 is invalid", issue.String())
}
