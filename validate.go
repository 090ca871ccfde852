package x12

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Severity indicates how serious a ValidationIssue is
type Severity uint

const (
	// SeverityError marks issues that make the document invalid
	SeverityError Severity = iota
	// SeverityWarning marks issues that may cause rejection by a payer
	SeverityWarning
	// SeverityInfo marks informational issues
	SeverityInfo
)

func (s Severity) String() string {
	return [...]string{"ERROR", "WARNING", "INFO"}[s]
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var severityValues = map[string]Severity{
	"ERROR":   SeverityError,
	"WARNING": SeverityWarning,
	"INFO":    SeverityInfo,
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	*s = severityValues[name]
	return nil
}

// ValidationIssue is a single problem found in the document. SegmentNumber
// is the 1-based ordinal of the segment in the document, or 0 when the
// issue applies to the document as a whole. ElementPosition is the element
// index within the segment, or 0 when the issue is not tied to one element.
type ValidationIssue struct {
	Severity        Severity `json:"severity"`
	SegmentID       string   `json:"segmentId"`
	SegmentNumber   int      `json:"segmentNumber"`
	ElementPosition int      `json:"elementPosition,omitempty"`
	Message         string   `json:"message"`
	Context         string   `json:"context,omitempty"`
}

func (i ValidationIssue) String() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "[%s] %s", i.Severity, i.SegmentID)
	if i.SegmentNumber > 0 {
		_, _ = fmt.Fprintf(&b, " segment %d", i.SegmentNumber)
	}
	if i.ElementPosition > 0 {
		_, _ = fmt.Fprintf(&b, " element %d", i.ElementPosition)
	}
	_, _ = fmt.Fprintf(&b, ": %s", i.Message)
	return b.String()
}

// ValidationResult accumulates issues across all validation layers.
// Issues are only ever appended.
type ValidationResult struct {
	Issues       []ValidationIssue `json:"issues"`
	SegmentCount int               `json:"segmentCount"`
}

// Valid reports whether the document passed validation: false iff any
// issue has error severity.
func (r *ValidationResult) Valid() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Summary returns the number of issues at each severity.
func (r *ValidationResult) Summary() map[Severity]int {
	summary := map[Severity]int{
		SeverityError:   0,
		SeverityWarning: 0,
		SeverityInfo:    0,
	}
	for _, issue := range r.Issues {
		summary[issue.Severity]++
	}
	return summary
}

// BySeverity returns the issues matching the given severity, in document
// order.
func (r *ValidationResult) BySeverity(s Severity) []ValidationIssue {
	var issues []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == s {
			issues = append(issues, issue)
		}
	}
	return issues
}

func (r *ValidationResult) add(
	severity Severity,
	segmentId string,
	segmentNumber int,
	elementPosition int,
	message string,
) {
	r.addContext(severity, segmentId, segmentNumber, elementPosition, message, "")
}

func (r *ValidationResult) addContext(
	severity Severity,
	segmentId string,
	segmentNumber int,
	elementPosition int,
	message string,
	context string,
) {
	r.Issues = append(
		r.Issues, ValidationIssue{
			Severity:        severity,
			SegmentID:       segmentId,
			SegmentNumber:   segmentNumber,
			ElementPosition: elementPosition,
			Message:         message,
			Context:         context,
		},
	)
}

// Validator runs the structural, envelope, per-segment and business-rule
// validation layers over a tokenized message. The zero value is ready to
// use.
type Validator struct {
	// StrictComposites, when set, reports a warning for HI diagnosis
	// elements that carry no sub-element separator and so cannot be
	// split into qualifier and code. The default mirrors the historical
	// behavior of skipping such elements silently.
	StrictComposites bool
}

// Validate runs every validation layer over the message. All layers
// consume the same token sequence and accumulate into one result; no
// layer stops another from running.
func (v *Validator) Validate(
	ctx context.Context,
	msg *RawMessage,
) *ValidationResult {
	result := &ValidationResult{}
	segments := msg.Segments()
	result.SegmentCount = len(segments)

	if len(segments) == 0 {
		result.add(
			SeverityError, "FILE", 0, 0,
			"No segments found in file",
		)
		return result
	}

	subSep := string(msg.Delimiters.SubElement)
	passes := []func([]RawSegment, *ValidationResult){
		v.validateStructure,
		v.validateEnvelopes,
		func(segments []RawSegment, result *ValidationResult) {
			v.validateSegments(segments, subSep, result)
		},
		v.validateBusinessRules,
	}
	for _, pass := range passes {
		if ctx.Err() != nil {
			break
		}
		pass(segments, result)
	}
	return result
}

// validateStructure checks every segment has an identifier from the 837P
// set and at least two elements.
func (v *Validator) validateStructure(
	segments []RawSegment,
	result *ValidationResult,
) {
	for idx, segment := range segments {
		num := idx + 1
		segmentId := segment.ID()

		if segmentId == "" {
			result.add(
				SeverityError, "UNKNOWN", num, 0,
				"Segment has no identifier",
			)
			continue
		}
		if _, ok := validSegmentIds837P[segmentId]; !ok {
			result.add(
				SeverityWarning, segmentId, num, 0,
				fmt.Sprintf(
					"Segment ID '%s' not recognized for 837P transaction",
					segmentId,
				),
			)
		}
		if len(segment) < 2 {
			result.add(
				SeverityError, segmentId, num, 0,
				fmt.Sprintf(
					"Segment has insufficient elements (found %d)",
					len(segment),
				),
			)
		}
	}
}

// envelopeState tracks open counts, last-seen control numbers and open
// positions for the three envelope levels during a single scan.
type envelopeState struct {
	isaCount   int
	gsCount    int
	stCount    int
	isaControl string
	gsControl  string
	stControl  string
	stOrdinal  int
}

// validateEnvelopes verifies the ISA/IEA, GS/GE and ST/SE envelopes open,
// close, and cross-reference consistently: control numbers on each close
// must match the most recent open, and declared child counts must match
// actual counts.
func (v *Validator) validateEnvelopes(
	segments []RawSegment,
	result *ValidationResult,
) {
	var state envelopeState

	for idx, segment := range segments {
		num := idx + 1

		switch segment.ID() {
		case isaSegmentId:
			state.isaCount++
			if state.isaCount > 1 {
				result.add(
					SeverityError, isaSegmentId, num, 0,
					"Multiple ISA segments found (should be exactly one)",
				)
			}
			if len(segment) > isaIndexControlNumber {
				state.isaControl = segment[isaIndexControlNumber]
			} else {
				result.add(
					SeverityError, isaSegmentId, num, isaIndexControlNumber,
					"ISA segment missing control number",
				)
			}
		case ieaSegmentId:
			if len(segment) > ieaIndexControlNumber {
				ieaControl := segment[ieaIndexControlNumber]
				if state.isaControl != "" && ieaControl != state.isaControl {
					result.add(
						SeverityError, ieaSegmentId, num, ieaIndexControlNumber,
						fmt.Sprintf(
							"IEA control number '%s' does not match ISA '%s'",
							ieaControl, state.isaControl,
						),
					)
				}
				declared := segment[ieaIndexFunctionalGroupCount]
				if declared != strconv.Itoa(state.gsCount) {
					result.add(
						SeverityError, ieaSegmentId, num, ieaIndexFunctionalGroupCount,
						fmt.Sprintf(
							"IEA reports %s functional groups but found %d",
							declared, state.gsCount,
						),
					)
				}
			}
		case gsSegmentId:
			state.gsCount++
			if len(segment) > gsIndexVersion {
				state.gsControl = segment[gsIndexControlNumber]
			} else {
				result.add(
					SeverityError, gsSegmentId, num, gsIndexControlNumber,
					"GS segment missing control number",
				)
			}
		case geSegmentId:
			if len(segment) > geIndexControlNumber {
				geControl := segment[geIndexControlNumber]
				if state.gsControl != "" && geControl != state.gsControl {
					result.add(
						SeverityError, geSegmentId, num, geIndexControlNumber,
						fmt.Sprintf(
							"GE control number '%s' does not match GS '%s'",
							geControl, state.gsControl,
						),
					)
				}
				declared := segment[geIndexTransactionSetCount]
				if declared != strconv.Itoa(state.stCount) {
					result.add(
						SeverityError, geSegmentId, num, geIndexTransactionSetCount,
						fmt.Sprintf(
							"GE reports %s transaction sets but found %d",
							declared, state.stCount,
						),
					)
				}
			}
		case stSegmentId:
			state.stCount++
			state.stOrdinal = num
			if len(segment) > stIndexControlNumber {
				state.stControl = segment[stIndexControlNumber]
				if segment[stIndexTransactionSetCode] != transactionSetCode837 {
					result.add(
						SeverityError, stSegmentId, num, stIndexTransactionSetCode,
						fmt.Sprintf(
							"Expected transaction set '837' but found '%s'",
							segment[stIndexTransactionSetCode],
						),
					)
				}
			} else {
				result.add(
					SeverityError, stSegmentId, num, stIndexControlNumber,
					"ST segment missing control number",
				)
			}
		case seSegmentId:
			if len(segment) > seIndexControlNumber {
				seControl := segment[seIndexControlNumber]
				if state.stControl != "" && seControl != state.stControl {
					result.add(
						SeverityError, seSegmentId, num, seIndexControlNumber,
						fmt.Sprintf(
							"SE control number '%s' does not match ST '%s'",
							seControl, state.stControl,
						),
					)
				}
				if state.stOrdinal > 0 {
					// SE01 counts every segment in the transaction
					// set, ST and SE included
					actual := num - state.stOrdinal + 1
					declared := segment[seIndexSegmentCount]
					if declared != strconv.Itoa(actual) {
						result.add(
							SeverityError, seSegmentId, num, seIndexSegmentCount,
							fmt.Sprintf(
								"SE reports %s segments but transaction set contains %d",
								declared, actual,
							),
						)
					}
				}
			}
		}
	}

	if state.isaCount == 0 {
		result.add(
			SeverityError, isaSegmentId, 0, 0,
			"Missing ISA segment (required)",
		)
	}
	if state.gsCount == 0 {
		result.add(
			SeverityError, gsSegmentId, 0, 0,
			"Missing GS segment (required)",
		)
	}
	if state.stCount == 0 {
		result.add(
			SeverityError, stSegmentId, 0, 0,
			"Missing ST segment (required)",
		)
	}
}

// validateSegments dispatches per-segment content checks. Each check is
// stateless and never looks at neighboring segments.
func (v *Validator) validateSegments(
	segments []RawSegment,
	subSep string,
	result *ValidationResult,
) {
	for idx, segment := range segments {
		num := idx + 1
		switch segment.ID() {
		case nm1SegmentId:
			v.validateEntityName(segment, num, result)
		case clmSegmentId:
			v.validateClaim(segment, num, subSep, result)
		case dtpSegmentId:
			v.validateDate(segment, num, result)
		case hiSegmentId:
			v.validateDiagnosis(segment, num, subSep, result)
		case sv1SegmentId:
			v.validateServiceLine(segment, num, result)
		}
	}
}

func (v *Validator) validateEntityName(
	segment RawSegment,
	num int,
	result *ValidationResult,
) {
	if len(segment) < 4 {
		result.add(
			SeverityError, nm1SegmentId, num, 0,
			fmt.Sprintf(
				"NM1 segment has insufficient elements (found %d, need at least 4)",
				len(segment),
			),
		)
		return
	}

	entityCode := segment[1]
	if _, ok := entityIdCodes[entityCode]; !ok {
		result.addContext(
			SeverityWarning, nm1SegmentId, num, 1,
			fmt.Sprintf(
				"Entity identifier code '%s' not recognized",
				entityCode,
			),
			"Valid codes: 1P, 2B, 36, 40, 41...",
		)
	}

	entityType := segment[2]
	if _, ok := entityTypeCodes[entityType]; !ok {
		result.add(
			SeverityError, nm1SegmentId, num, 2,
			fmt.Sprintf(
				"Invalid entity type qualifier '%s' (must be 1 or 2)",
				entityType,
			),
		)
	}

	if strings.TrimSpace(segment[3]) == "" {
		result.add(
			SeverityError, nm1SegmentId, num, 3,
			"Entity name is required but empty",
		)
	}
}

var twoDigitPattern = regexp.MustCompile(`^\d{2}$`)

func (v *Validator) validateClaim(
	segment RawSegment,
	num int,
	subSep string,
	result *ValidationResult,
) {
	if len(segment) < 6 {
		result.add(
			SeverityError, clmSegmentId, num, 0,
			fmt.Sprintf(
				"CLM segment has insufficient elements (found %d, need at least 6)",
				len(segment),
			),
		)
		return
	}

	claimAmount := segment[2]
	amount, err := strconv.ParseFloat(strings.TrimSpace(claimAmount), 64)
	if err != nil {
		result.add(
			SeverityError, clmSegmentId, num, 2,
			fmt.Sprintf(
				"Claim amount '%s' is not a valid number", claimAmount,
			),
		)
	} else if amount <= 0 {
		result.add(
			SeverityWarning, clmSegmentId, num, 2,
			fmt.Sprintf("Claim amount is %v (should be positive)", amount),
		)
	}

	facilityInfo := segment[5]
	parts := strings.Split(facilityInfo, subSep)
	if len(parts) >= 3 {
		facilityCode := parts[0]
		if !twoDigitPattern.MatchString(facilityCode) {
			result.add(
				SeverityWarning, clmSegmentId, num, 5,
				fmt.Sprintf(
					"Facility code '%s' should be 2 digits", facilityCode,
				),
			)
		}
	}
}

var calendarDatePattern = regexp.MustCompile(`^\d{8}$`)

func (v *Validator) validateDate(
	segment RawSegment,
	num int,
	result *ValidationResult,
) {
	if len(segment) < 4 {
		result.add(
			SeverityError, dtpSegmentId, num, 0,
			fmt.Sprintf(
				"DTP segment has insufficient elements (found %d, need 4)",
				len(segment),
			),
		)
		return
	}

	dateFormat := segment[2]
	if _, ok := dateFormatQualifiers[dateFormat]; !ok {
		result.add(
			SeverityWarning, dtpSegmentId, num, 2,
			fmt.Sprintf(
				"Date format qualifier '%s' not standard (expected D8 or RD8)",
				dateFormat,
			),
		)
	}

	dateValue := segment[3]
	if dateFormat != "D8" {
		return
	}
	if !calendarDatePattern.MatchString(dateValue) {
		result.add(
			SeverityError, dtpSegmentId, num, 3,
			fmt.Sprintf("Date '%s' not in CCYYMMDD format", dateValue),
		)
		return
	}

	// The year, month and day checks are independent so a single value
	// can produce more than one issue.
	year, _ := strconv.Atoi(dateValue[0:4])
	month, _ := strconv.Atoi(dateValue[4:6])
	day, _ := strconv.Atoi(dateValue[6:8])

	if year < minValidYear || year > maxValidYear {
		result.add(
			SeverityWarning, dtpSegmentId, num, 3,
			fmt.Sprintf("Date year %d seems unusual", year),
		)
	}
	if month < 1 || month > 12 {
		result.add(
			SeverityError, dtpSegmentId, num, 3,
			fmt.Sprintf("Date month %d is invalid", month),
		)
	}
	if day < 1 || day > 31 {
		result.add(
			SeverityError, dtpSegmentId, num, 3,
			fmt.Sprintf("Date day %d is invalid", day),
		)
	}
}

func (v *Validator) validateDiagnosis(
	segment RawSegment,
	num int,
	subSep string,
	result *ValidationResult,
) {
	if len(segment) < 2 {
		result.add(
			SeverityError, hiSegmentId, num, 0,
			"HI segment must contain at least one diagnosis code",
		)
		return
	}

	for i := 1; i < len(segment); i++ {
		element := segment[i]
		if !strings.Contains(element, subSep) {
			if v.StrictComposites {
				result.add(
					SeverityWarning, hiSegmentId, num, i,
					fmt.Sprintf(
						"Diagnosis element '%s' is not a qualifier%scode composite",
						element, subSep,
					),
				)
			}
			continue
		}
		parts := strings.Split(element, subSep)
		if len(parts) < 2 {
			continue
		}
		qualifier := parts[0]
		code := parts[1]

		if _, ok := diagnosisQualifiers[qualifier]; !ok {
			result.add(
				SeverityWarning, hiSegmentId, num, i,
				fmt.Sprintf(
					"Diagnosis code qualifier '%s' not standard", qualifier,
				),
			)
		}
		if strings.TrimSpace(code) == "" {
			result.add(
				SeverityError, hiSegmentId, num, i,
				"Diagnosis code is empty",
			)
		}
	}
}

func (v *Validator) validateServiceLine(
	segment RawSegment,
	num int,
	result *ValidationResult,
) {
	if len(segment) < 3 {
		result.add(
			SeverityError, sv1SegmentId, num, 0,
			fmt.Sprintf(
				"SV1 segment has insufficient elements (found %d)",
				len(segment),
			),
		)
		return
	}

	lineCharge := segment[2]
	amount, err := strconv.ParseFloat(strings.TrimSpace(lineCharge), 64)
	if err != nil {
		result.add(
			SeverityError, sv1SegmentId, num, 2,
			fmt.Sprintf(
				"Line item charge '%s' is not a valid number", lineCharge,
			),
		)
	} else if amount < 0 {
		result.add(
			SeverityWarning, sv1SegmentId, num, 2,
			fmt.Sprintf("Line item charge is negative: %v", amount),
		)
	}

	if len(segment) > 4 {
		units := segment[4]
		unitCount, err := strconv.ParseFloat(strings.TrimSpace(units), 64)
		if err != nil {
			result.add(
				SeverityError, sv1SegmentId, num, 4,
				fmt.Sprintf(
					"Service units '%s' is not a valid number", units,
				),
			)
		} else if unitCount <= 0 {
			result.add(
				SeverityWarning, sv1SegmentId, num, 4,
				fmt.Sprintf(
					"Service units should be positive (found %v)", unitCount,
				),
			)
		}
	}
}

// businessState carries the presence flags and running totals of the
// business-rule fold.
type businessState struct {
	hasBillingProvider bool
	hasSubscriber      bool
	hasPatient         bool
	hasClaim           bool
	claimAmount        float64
	serviceLineTotal   float64
}

// validateBusinessRules folds once over the segment sequence, then checks
// the required entities were seen and the claim total reconciles with the
// summed service line charges within the fixed tolerance.
func (v *Validator) validateBusinessRules(
	segments []RawSegment,
	result *ValidationResult,
) {
	var state businessState

	for _, segment := range segments {
		switch segment.ID() {
		case nm1SegmentId:
			switch segment.Get(1) {
			case entityBillingProvider:
				state.hasBillingProvider = true
			case entitySubscriber:
				state.hasSubscriber = true
			case entityPatient:
				state.hasPatient = true
			}
		case clmSegmentId:
			state.hasClaim = true
			if amount, err := strconv.ParseFloat(
				strings.TrimSpace(segment.Get(2)), 64,
			); err == nil {
				state.claimAmount = amount
			}
		case sv1SegmentId:
			if amount, err := strconv.ParseFloat(
				strings.TrimSpace(segment.Get(2)), 64,
			); err == nil {
				state.serviceLineTotal += amount
			}
		}
	}

	if !state.hasBillingProvider {
		result.add(
			SeverityError, nm1SegmentId, 0, 0,
			"Missing required Billing Provider (NM1*85)",
		)
	}
	if !state.hasSubscriber {
		result.add(
			SeverityError, nm1SegmentId, 0, 0,
			"Missing required Subscriber/Insured (NM1*IL)",
		)
	}
	if !state.hasClaim {
		result.add(
			SeverityError, clmSegmentId, 0, 0,
			"Missing required CLM (Claim Information) segment",
		)
	}

	if state.claimAmount > 0 && state.serviceLineTotal > 0 {
		difference := state.claimAmount - state.serviceLineTotal
		if difference < 0 {
			difference = -difference
		}
		if difference > claimTotalTolerance {
			result.add(
				SeverityWarning, clmSegmentId, 0, 2,
				fmt.Sprintf(
					"Claim amount ($%.2f) does not match service line total ($%.2f)",
					state.claimAmount, state.serviceLineTotal,
				),
			)
		}
	}
}
