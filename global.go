package x12

const (
	isaSegmentId = "ISA"
	ieaSegmentId = "IEA"
	gsSegmentId  = "GS"
	geSegmentId  = "GE"
	stSegmentId  = "ST"
	seSegmentId  = "SE"
	bhtSegmentId = "BHT"
	hlSegmentId  = "HL"
	nm1SegmentId = "NM1"
	n3SegmentId  = "N3"
	n4SegmentId  = "N4"
	perSegmentId = "PER"
	refSegmentId = "REF"
	sbrSegmentId = "SBR"
	dmgSegmentId = "DMG"
	clmSegmentId = "CLM"
	cl1SegmentId = "CL1"
	dtpSegmentId = "DTP"
	hiSegmentId  = "HI"
	lxSegmentId  = "LX"
	sv1SegmentId = "SV1"
	patSegmentId = "PAT"
	prvSegmentId = "PRV"
)

// The ISA header is fixed-width: every element is padded to a known
// length, so the separators sit at known byte offsets.
const (
	isaByteCount                = 106
	isaElementSeparatorIndex    = 3
	isaSubElementSeparatorIndex = 104
)

const (
	isaIndexSenderIdQualifier   = 5
	isaIndexSenderId            = 6
	isaIndexReceiverIdQualifier = 7
	isaIndexReceiverId          = 8
	isaIndexDate                = 9
	isaIndexTime                = 10
	isaIndexVersion             = 12
	isaIndexControlNumber       = 13
	isaIndexUsageIndicator      = 15
)

const (
	ieaIndexFunctionalGroupCount = iota + 1
	ieaIndexControlNumber
)

const (
	gsIndexFunctionalIdentifierCode = iota + 1
	gsIndexSenderCode
	gsIndexReceiverCode
	gsIndexDate
	gsIndexTime
	gsIndexControlNumber
	gsIndexResponsibleAgencyCode
	gsIndexVersion
)

const (
	geIndexTransactionSetCount = iota + 1
	geIndexControlNumber
)

const (
	stIndexTransactionSetCode = iota + 1
	stIndexControlNumber
	stIndexVersionCode
)

const (
	seIndexSegmentCount = iota + 1
	seIndexControlNumber
)

// HL03 level codes marking positions in the provider/subscriber hierarchy.
const (
	hlLevelBillingProvider = "20"
	hlLevelSubscriber      = "22"
)

// NM101 entity identifier codes the pipeline dispatches on.
const (
	entitySubmitter       = "41"
	entityReceiver        = "40"
	entityBillingProvider = "85"
	entitySubscriber      = "IL"
	entityPayer           = "PR"
	entityPatient         = "QC"
)

const (
	minValidYear = 1900
	maxValidYear = 2100
	// claimTotalTolerance absorbs decimal rounding between the CLM02
	// total and the summed SV1 line charges.
	claimTotalTolerance = 0.01
)

const transactionSetCode837 = "837"

// validSegmentIds837P is the closed set of segment identifiers recognized
// for an 837P professional claim.
var validSegmentIds837P = map[string]struct{}{
	isaSegmentId: {}, gsSegmentId: {}, stSegmentId: {}, bhtSegmentId: {},
	refSegmentId: {}, nm1SegmentId: {}, n3SegmentId: {}, n4SegmentId: {},
	perSegmentId: {}, hlSegmentId: {}, prvSegmentId: {}, sbrSegmentId: {},
	patSegmentId: {}, dmgSegmentId: {}, clmSegmentId: {}, dtpSegmentId: {},
	cl1SegmentId: {}, hiSegmentId: {}, lxSegmentId: {}, sv1SegmentId: {},
	seSegmentId: {}, geSegmentId: {}, ieaSegmentId: {},
}

var entityTypeCodes = map[string]string{
	"1": "Person",
	"2": "Non-Person Entity",
}

var entityIdCodes = map[string]string{
	"1P": "Provider",
	"2B": "Third-Party Administrator",
	"36": "Employer",
	"40": "Receiver",
	"41": "Submitter",
	"85": "Billing Provider",
	"87": "Pay-to Provider",
	"IL": "Insured",
	"PR": "Payer",
	"QC": "Patient",
}

var relationshipCodes = map[string]string{
	"01": "Spouse",
	"18": "Self",
	"19": "Child",
	"20": "Employee",
	"21": "Unknown",
	"39": "Organ Donor",
	"40": "Cadaver Donor",
	"53": "Life Partner",
	"G8": "Other Relationship",
}

var payerResponsibilityCodes = map[string]string{
	"P": "Primary",
	"S": "Secondary",
	"T": "Tertiary",
}

// diagnosisQualifiers are the HI composite qualifiers treated as standard
// (ICD-10 and ICD-9 respectively).
var diagnosisQualifiers = map[string]struct{}{
	"ABK": {},
	"BK":  {},
}

var dateFormatQualifiers = map[string]struct{}{
	"D8":  {},
	"RD8": {},
}

var procedureDescriptions = map[string]string{
	"99213": "Office/outpatient visit, established patient",
	"80053": "Comprehensive metabolic panel",
	"85025": "Complete blood count",
}
