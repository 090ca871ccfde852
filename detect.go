package x12

import (
	"fmt"
	"strings"
)

// TransactionType identifies which healthcare transaction a file carries.
type TransactionType uint

const (
	TransactionUnknown TransactionType = iota
	Transaction837P
	Transaction837I
	Transaction835
	Transaction270
	Transaction271
	Transaction276
	Transaction277
	Transaction278
	Transaction999
)

func (t TransactionType) String() string {
	switch t {
	case Transaction837P:
		return "837P"
	case Transaction837I:
		return "837I"
	case Transaction835:
		return "835"
	case Transaction270:
		return "270"
	case Transaction271:
		return "271"
	case Transaction276:
		return "276"
	case Transaction277:
		return "277"
	case Transaction278:
		return "278"
	case Transaction999:
		return "999"
	}
	return "UNKNOWN"
}

func (t TransactionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Confidence grades how certain a detection result is.
type Confidence uint

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "HIGH"
	case ConfidenceMedium:
		return "MEDIUM"
	}
	return "LOW"
}

func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// transactionCodes maps ST01 values to their transaction set names.
var transactionCodes = map[string]string{
	"837": "Health Care Claim",
	"835": "Health Care Claim Payment/Advice",
	"270": "Eligibility, Coverage or Benefit Inquiry",
	"271": "Eligibility, Coverage or Benefit Information",
	"276": "Health Care Claim Status Request",
	"277": "Health Care Claim Status Response",
	"278": "Health Care Services Review Information",
	"999": "Implementation Acknowledgment",
}

// functionalGroupCodes maps GS01 values to their group names.
var functionalGroupCodes = map[string]string{
	"HC": "Health Care Claim",
	"HP": "Health Care Claim Payment",
	"HS": "Health Care Services Review",
	"HB": "Health Care Eligibility/Benefit Response",
	"HR": "Health Care Claim Status Request",
	"HN": "Health Care Claim Status Response",
	"FA": "Functional Acknowledgment",
}

// implGuides837 distinguishes the 837 variants by the leading portion of
// the ST03 implementation guide value.
var implGuides837 = map[string]TransactionType{
	"005010X222": Transaction837P,
	"005010X223": Transaction837I,
}

// expectedFunctionalGroups maps each transaction type to the functional
// group code its envelope should carry.
var expectedFunctionalGroups = map[TransactionType]string{
	Transaction837P: "HC",
	Transaction837I: "HC",
	Transaction835:  "HP",
	Transaction270:  "HS",
	Transaction271:  "HB",
	Transaction276:  "HR",
	Transaction277:  "HN",
	Transaction278:  "HS",
	Transaction999:  "FA",
}

var transactionDescriptions = map[TransactionType]string{
	Transaction837P: "837P - Professional Health Care Claim",
	Transaction837I: "837I - Institutional Health Care Claim",
	Transaction835:  "835 - Health Care Claim Payment/Remittance Advice",
	Transaction270:  "270 - Health Care Eligibility/Benefit Inquiry",
	Transaction271:  "271 - Health Care Eligibility/Benefit Response",
	Transaction276:  "276 - Health Care Claim Status Request",
	Transaction277:  "277 - Health Care Claim Status Response",
	Transaction278:  "278 - Health Care Services Review (Authorization)",
	Transaction999:  "999 - Implementation Acknowledgment for Health Care",
}

// codeTransactionTypes resolves ST01 values that identify a transaction
// without needing the implementation guide.
var codeTransactionTypes = map[string]TransactionType{
	"835": Transaction835,
	"270": Transaction270,
	"271": Transaction271,
	"276": Transaction276,
	"277": Transaction277,
	"278": Transaction278,
	"999": Transaction999,
}

// DetectionResult describes the transaction type found in a file, how it
// was identified, and whether the envelope codes agree with it.
type DetectionResult struct {
	Type                TransactionType `json:"type"`
	TransactionCode     string          `json:"transactionCode"`
	ImplementationGuide string          `json:"implementationGuide,omitempty"`
	FunctionalGroup     string          `json:"functionalGroup,omitempty"`
	Description         string          `json:"description"`
	Consistent          bool            `json:"consistent"`
	Confidence          Confidence      `json:"confidence"`
	Details             []string        `json:"details"`
}

// Detect identifies the transaction type carried by raw file content.
// Delimiter or tokenization failures produce a low-confidence UNKNOWN
// result rather than an error.
func Detect(data []byte) DetectionResult {
	msg, err := Read(data)
	if err != nil {
		return DetectionResult{
			Type:        TransactionUnknown,
			Description: "Invalid format: cannot parse interchange header",
			Confidence:  ConfidenceLow,
			Details:     []string{fmt.Sprintf("delimiter detection failed: %v", err)},
		}
	}
	return DetectMessage(msg)
}

// DetectMessage identifies the transaction type of an already tokenized
// message.
func DetectMessage(msg *RawMessage) DetectionResult {
	segments := msg.Segments()
	details := []string{
		fmt.Sprintf("Delimiters detected: Element=%q, Segment=%q, Sub-element=%q",
			msg.Delimiters.Element, msg.Delimiters.Segment, msg.Delimiters.SubElement),
		fmt.Sprintf("Total segments: %d", len(segments)),
	}

	var st, gs RawSegment
	for _, segment := range segments {
		switch segment.ID() {
		case stSegmentId:
			if st == nil {
				st = segment
			}
		case gsSegmentId:
			if gs == nil {
				gs = segment
			}
		}
	}

	if st == nil {
		return DetectionResult{
			Type:        TransactionUnknown,
			Description: "Invalid format: missing transaction set header",
			Confidence:  ConfidenceLow,
			Details:     append(details, "ST segment not found"),
		}
	}

	code := st.Get(stIndexTransactionSetCode)
	guide := st.Get(stIndexVersionCode)
	details = append(details,
		fmt.Sprintf("Transaction code (ST02): %s", code),
		fmt.Sprintf("Implementation guide (ST03): %s", guide))

	group := ""
	if gs != nil {
		group = gs.Get(gsIndexFunctionalIdentifierCode)
		details = append(details, fmt.Sprintf("Functional group (GS01): %s", group))
	}

	transactionType, confidence, details := classify(code, guide, group, details)

	result := DetectionResult{
		Type:                transactionType,
		TransactionCode:     code,
		ImplementationGuide: guide,
		FunctionalGroup:     group,
		Description:         describe(transactionType, code),
		Consistent:          true,
		Confidence:          confidence,
		Details:             details,
	}

	if expected, ok := expectedFunctionalGroups[transactionType]; ok {
		if group != "" && group != expected {
			result.Consistent = false
			result.Details = append(result.Details, fmt.Sprintf(
				"WARNING: Functional group '%s' does not match expected '%s' for %s",
				group, expected, transactionType))
		}
	}
	return result
}

func classify(code, guide, group string, details []string) (TransactionType, Confidence, []string) {
	if transactionType, ok := codeTransactionTypes[code]; ok {
		details = append(details, fmt.Sprintf("Identified as %s", transactionDescriptions[transactionType]))
		return transactionType, ConfidenceHigh, details
	}

	if code != transactionSetCode837 {
		details = append(details, fmt.Sprintf("Unknown transaction code: %s", code))
		return TransactionUnknown, ConfidenceLow, details
	}

	// 837 variants are told apart by the implementation guide prefix.
	if len(guide) >= 10 {
		prefix := guide[:10]
		if variant, ok := implGuides837[prefix]; ok {
			details = append(details, fmt.Sprintf("%s identified via implementation guide: %s", variant, guide))
			return variant, ConfidenceHigh, details
		}
	}

	if group == "HC" {
		details = append(details, "837 variant unclear from guide, defaulting to 837P")
		return Transaction837P, ConfidenceMedium, details
	}

	details = append(details, "837 variant cannot be determined with confidence")
	return TransactionUnknown, ConfidenceLow, details
}

func describe(transactionType TransactionType, code string) string {
	if description, ok := transactionDescriptions[transactionType]; ok {
		return description
	}
	name, ok := transactionCodes[code]
	if !ok {
		name = "Unknown Transaction"
	}
	return fmt.Sprintf("%s - %s", code, name)
}

// Report renders the detection result as a human-readable summary.
func (r DetectionResult) Report() string {
	var b strings.Builder
	rule := strings.Repeat("=", 70)
	line := strings.Repeat("-", 70)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "TRANSACTION TYPE DETECTION REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)
	status := "INVALID"
	if r.Consistent && r.Type != TransactionUnknown {
		status = "VALID"
	}
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Confidence: %s\n\n", r.Confidence)

	fmt.Fprintln(&b, "TRANSACTION INFORMATION")
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Type: %s\n", r.Type)
	fmt.Fprintf(&b, "Description: %s\n", r.Description)
	fmt.Fprintf(&b, "Transaction Code: %s\n", r.TransactionCode)
	if r.ImplementationGuide != "" {
		fmt.Fprintf(&b, "Implementation Guide: %s\n", r.ImplementationGuide)
	}
	if r.FunctionalGroup != "" {
		name, ok := functionalGroupCodes[r.FunctionalGroup]
		if !ok {
			name = "Unknown"
		}
		fmt.Fprintf(&b, "Functional Group: %s (%s)\n", r.FunctionalGroup, name)
	}
	fmt.Fprintln(&b)

	if len(r.Details) > 0 {
		fmt.Fprintln(&b, "DETECTION DETAILS")
		fmt.Fprintln(&b, line)
		for _, detail := range r.Details {
			fmt.Fprintf(&b, "  - %s\n", detail)
		}
		fmt.Fprintln(&b)
	}
	fmt.Fprintln(&b, rule)
	return b.String()
}
