package x12

import (
	"strconv"
	"strings"
	"time"
)

// maxRelatedSegments bounds the lookahead from a name segment to its
// contact segment.
const maxRelatedSegments = 5

// Document is the semantically labeled form of an 837P claim file. It is
// produced once per input and not modified afterwards.
type Document struct {
	Metadata         Metadata              `json:"metadata"`
	Interchange      InterchangeHeader     `json:"interchange"`
	FunctionalGroup  FunctionalGroupHeader `json:"functionalGroup"`
	TransactionSet   TransactionSetHeader  `json:"transactionSet"`
	TransactionBegin TransactionBegin      `json:"beginningOfHierarchicalTransaction"`
	Submitter        Submitter             `json:"submitter"`
	Receiver         Receiver              `json:"receiver"`
	Providers        []Provider            `json:"providers"`
	Subscribers      []Subscriber          `json:"subscribers"`
	Claims           []Claim               `json:"claims"`
	ControlTotals    ControlTotals         `json:"controlTotals"`
}

type Metadata struct {
	TransactionSet      string `json:"transactionSet,omitempty"`
	TransactionType     string `json:"transactionType"`
	Version             string `json:"version,omitempty"`
	ConversionTimestamp string `json:"conversionTimestamp"`
	SourceFile          string `json:"sourceFile"`
}

type InterchangeHeader struct {
	SenderID          string `json:"senderId,omitempty"`          // ISA06
	SenderQualifier   string `json:"senderQualifier,omitempty"`   // ISA05
	ReceiverID        string `json:"receiverId,omitempty"`        // ISA08
	ReceiverQualifier string `json:"receiverQualifier,omitempty"` // ISA07
	Date              string `json:"date,omitempty"`              // ISA09
	Time              string `json:"time,omitempty"`              // ISA10
	ControlNumber     string `json:"controlNumber,omitempty"`     // ISA13
	VersionNumber     string `json:"versionNumber,omitempty"`     // ISA12
	TestIndicator     string `json:"testIndicator,omitempty"`     // ISA15
}

type FunctionalGroupHeader struct {
	FunctionalCode      string `json:"functionalCode,omitempty"`      // GS01
	ApplicationSender   string `json:"applicationSender,omitempty"`   // GS02
	ApplicationReceiver string `json:"applicationReceiver,omitempty"` // GS03
	Date                string `json:"date,omitempty"`                // GS04
	Time                string `json:"time,omitempty"`                // GS05
	ControlNumber       string `json:"controlNumber,omitempty"`       // GS06
	ResponsibleAgency   string `json:"responsibleAgency,omitempty"`   // GS07
	Version             string `json:"version,omitempty"`             // GS08
}

type TransactionSetHeader struct {
	ControlNumber       string `json:"controlNumber,omitempty"`       // ST02
	ImplementationGuide string `json:"implementationGuide,omitempty"` // ST03
}

type TransactionBegin struct {
	StructureCode       string `json:"structureCode,omitempty"`       // BHT01
	PurposeCode         string `json:"purposeCode,omitempty"`         // BHT02
	ReferenceID         string `json:"referenceId,omitempty"`         // BHT03
	Date                string `json:"date,omitempty"`                // BHT04
	Time                string `json:"time,omitempty"`                // BHT05
	TransactionTypeCode string `json:"transactionTypeCode,omitempty"` // BHT06
}

type Contact struct {
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Extension string `json:"extension,omitempty"`
}

type Submitter struct {
	OrganizationName    string   `json:"organizationName,omitempty"`
	IdentifierCode      string   `json:"identifierCode,omitempty"`
	IdentifierQualifier string   `json:"identifierQualifier,omitempty"`
	Contact             *Contact `json:"contact,omitempty"`
}

type Receiver struct {
	OrganizationName    string `json:"organizationName,omitempty"`
	IdentifierCode      string `json:"identifierCode,omitempty"`
	IdentifierQualifier string `json:"identifierQualifier,omitempty"`
}

type Organization struct {
	Name  string `json:"name,omitempty"`
	NPI   string `json:"npi,omitempty"`
	TaxID string `json:"taxId,omitempty"`
}

type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// Provider is one billing-provider hierarchical level and the entity,
// address, and reference segments attached to it.
type Provider struct {
	HierarchicalLevel string        `json:"hierarchicalLevel,omitempty"`
	LevelCode         string        `json:"levelCode,omitempty"`
	HasChildren       bool          `json:"hasChildren"`
	ProviderType      string        `json:"providerType"`
	Organization      *Organization `json:"organization,omitempty"`
	Address           *Address      `json:"address,omitempty"`
}

type Demographics struct {
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

type Patient struct {
	LastName     string        `json:"lastName,omitempty"`
	FirstName    string        `json:"firstName,omitempty"`
	MiddleName   string        `json:"middleName,omitempty"`
	MemberID     string        `json:"memberId,omitempty"`
	Address      *Address      `json:"address,omitempty"`
	Demographics *Demographics `json:"demographics,omitempty"`
}

type Payer struct {
	Name                string `json:"name,omitempty"`
	PayerID             string `json:"payerId,omitempty"`
	IdentifierQualifier string `json:"identifierQualifier,omitempty"`
}

// Subscriber is one subscriber hierarchical level with its payer
// responsibility, patient identity, address and demographic fields.
type Subscriber struct {
	HierarchicalLevel    string   `json:"hierarchicalLevel,omitempty"`
	ParentLevel          string   `json:"parentLevel,omitempty"`
	LevelCode            string   `json:"levelCode,omitempty"`
	HasChildren          bool     `json:"hasChildren"`
	PayerResponsibility  string   `json:"payerResponsibility,omitempty"`
	RelationshipCode     string   `json:"relationshipCode,omitempty"`
	Relationship         string   `json:"relationship,omitempty"`
	ClaimFilingIndicator string   `json:"claimFilingIndicator,omitempty"`
	Patient              *Patient `json:"patient,omitempty"`
	Payer                *Payer   `json:"payer,omitempty"`
}

type Diagnosis struct {
	Code     string `json:"code"`
	CodeType string `json:"codeType"`
}

type Diagnoses struct {
	Principal  *Diagnosis  `json:"principal,omitempty"`
	Additional []Diagnosis `json:"additional"`
}

type ClaimDates struct {
	AdmissionDate string `json:"admissionDate,omitempty"`
	DischargeDate string `json:"dischargeDate,omitempty"`
}

type Procedure struct {
	Code        string `json:"code,omitempty"`
	CodeType    string `json:"codeType,omitempty"`
	Description string `json:"description,omitempty"`
}

type ServiceLine struct {
	LineNumber     int        `json:"lineNumber,omitempty"`
	Procedure      *Procedure `json:"procedure,omitempty"`
	ChargeAmount   float64    `json:"chargeAmount"`
	Unit           string     `json:"unit,omitempty"`
	Quantity       float64    `json:"quantity"`
	PlaceOfService string     `json:"placeOfService,omitempty"`
	ServiceDate    string     `json:"serviceDate,omitempty"`
}

// Claim is one CLM record with its dates, diagnoses and service lines.
type Claim struct {
	ClaimID              string        `json:"claimId,omitempty"`
	TotalChargeAmount    float64       `json:"totalChargeAmount"`
	PlaceOfService       string        `json:"placeOfService,omitempty"`
	ClaimFrequency       string        `json:"claimFrequency,omitempty"`
	ProviderSignature    string        `json:"providerSignature,omitempty"`
	AssignmentOfBenefits string        `json:"assignmentOfBenefits,omitempty"`
	ReleaseOfInformation string        `json:"releaseOfInformation,omitempty"`
	PatientSignature     string        `json:"patientSignature,omitempty"`
	AdmissionType        string        `json:"admissionType,omitempty"`
	AdmissionSource      string        `json:"admissionSource,omitempty"`
	PatientStatus        string        `json:"patientStatus,omitempty"`
	Dates                *ClaimDates   `json:"dates,omitempty"`
	Diagnoses            *Diagnoses    `json:"diagnoses,omitempty"`
	ServiceLines         []ServiceLine `json:"serviceLines"`
}

type ControlTotals struct {
	TransactionSegmentCount  *int   `json:"transactionSegmentCount"`
	FunctionalGroupCount     *int   `json:"functionalGroupCount"`
	InterchangeControlNumber string `json:"interchangeControlNumber,omitempty"`
}

// Transformer reconstructs the provider/subscriber/claim hierarchy from a
// tokenized message and produces the semantic Document. It is deliberately
// lenient: unparsable numeric or date values become zero or absent fields,
// never errors, since validation runs separately.
type Transformer struct {
	// SourceName is recorded in the document metadata. Defaults to
	// "X12 EDI Stream" when empty.
	SourceName string
	// Now supplies the conversion timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Transform builds the semantic document from the message's segment
// sequence.
func (t *Transformer) Transform(msg *RawMessage) *Document {
	b := &docBuilder{
		segments: msg.Segments(),
		subSep:   string(msg.Delimiters.SubElement),
	}

	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	sourceName := t.SourceName
	if sourceName == "" {
		sourceName = "X12 EDI Stream"
	}

	doc := &Document{
		Interchange:      b.interchange(),
		FunctionalGroup:  b.functionalGroup(),
		TransactionSet:   b.transactionSet(),
		TransactionBegin: b.transactionBegin(),
		Submitter:        b.submitter(),
		Receiver:         b.receiver(),
		Providers:        b.providers(),
		Subscribers:      b.subscribers(),
		Claims:           b.claims(),
		ControlTotals:    b.controlTotals(),
	}

	st := b.find(stSegmentId)
	doc.Metadata = Metadata{
		TransactionSet:      st.Get(1),
		TransactionType:     "Professional Claim",
		Version:             st.Get(3),
		ConversionTimestamp: now().Format(time.RFC3339),
		SourceFile:          sourceName,
	}
	return doc
}

// docBuilder holds the token sequence and the lookup helpers the
// per-section builders share.
type docBuilder struct {
	segments []RawSegment
	subSep   string
}

// find returns the first segment with the given identifier, or nil.
func (b *docBuilder) find(segmentId string) RawSegment {
	for _, segment := range b.segments {
		if segment.ID() == segmentId {
			return segment
		}
	}
	return nil
}

// findIndex returns the index of the first segment with the given
// identifier at or after start, or -1.
func (b *docBuilder) findIndex(segmentId string, start int) int {
	for i := start; i < len(b.segments); i++ {
		if b.segments[i].ID() == segmentId {
			return i
		}
	}
	return -1
}

// windowEnd returns the index of the next segment whose identifier is in
// stopIds, or the end of the sequence.
func (b *docBuilder) windowEnd(start int, stopIds ...string) int {
	for i := start; i < len(b.segments); i++ {
		id := b.segments[i].ID()
		for _, stop := range stopIds {
			if id == stop {
				return i
			}
		}
	}
	return len(b.segments)
}

func (b *docBuilder) interchange() InterchangeHeader {
	isa := b.find(isaSegmentId)
	if isa == nil {
		return InterchangeHeader{}
	}
	return InterchangeHeader{
		SenderID:          strings.TrimSpace(isa.Get(isaIndexSenderId)),
		SenderQualifier:   strings.TrimSpace(isa.Get(isaIndexSenderIdQualifier)),
		ReceiverID:        strings.TrimSpace(isa.Get(isaIndexReceiverId)),
		ReceiverQualifier: strings.TrimSpace(isa.Get(isaIndexReceiverIdQualifier)),
		Date:              formatDate(isa.Get(isaIndexDate)),
		Time:              formatTime(isa.Get(isaIndexTime)),
		ControlNumber:     strings.TrimSpace(isa.Get(isaIndexControlNumber)),
		VersionNumber:     strings.TrimSpace(isa.Get(isaIndexVersion)),
		TestIndicator:     strings.TrimSpace(isa.Get(isaIndexUsageIndicator)),
	}
}

func (b *docBuilder) functionalGroup() FunctionalGroupHeader {
	gs := b.find(gsSegmentId)
	if gs == nil {
		return FunctionalGroupHeader{}
	}
	return FunctionalGroupHeader{
		FunctionalCode:      gs.Get(gsIndexFunctionalIdentifierCode),
		ApplicationSender:   gs.Get(gsIndexSenderCode),
		ApplicationReceiver: gs.Get(gsIndexReceiverCode),
		Date:                formatDate(gs.Get(gsIndexDate)),
		Time:                formatTime(gs.Get(gsIndexTime)),
		ControlNumber:       gs.Get(gsIndexControlNumber),
		ResponsibleAgency:   gs.Get(gsIndexResponsibleAgencyCode),
		Version:             gs.Get(gsIndexVersion),
	}
}

func (b *docBuilder) transactionSet() TransactionSetHeader {
	st := b.find(stSegmentId)
	if st == nil {
		return TransactionSetHeader{}
	}
	return TransactionSetHeader{
		ControlNumber:       st.Get(stIndexControlNumber),
		ImplementationGuide: st.Get(stIndexVersionCode),
	}
}

func (b *docBuilder) transactionBegin() TransactionBegin {
	bht := b.find(bhtSegmentId)
	if bht == nil {
		return TransactionBegin{}
	}
	return TransactionBegin{
		StructureCode:       bht.Get(1),
		PurposeCode:         bht.Get(2),
		ReferenceID:         bht.Get(3),
		Date:                formatDate(bht.Get(4)),
		Time:                formatTime(bht.Get(5)),
		TransactionTypeCode: bht.Get(6),
	}
}

func (b *docBuilder) submitter() Submitter {
	for i, segment := range b.segments {
		if segment.ID() != nm1SegmentId || segment.Get(1) != entitySubmitter {
			continue
		}
		submitter := Submitter{
			OrganizationName:    segment.Get(3),
			IdentifierCode:      segment.Get(9),
			IdentifierQualifier: segment.Get(8),
		}
		perIndex := b.findIndex(perSegmentId, i)
		if perIndex > i && perIndex < i+maxRelatedSegments {
			per := b.segments[perIndex]
			submitter.Contact = &Contact{
				Name:      per.Get(2),
				Phone:     per.Get(4),
				Extension: per.Get(6),
			}
		}
		return submitter
	}
	return Submitter{}
}

func (b *docBuilder) receiver() Receiver {
	for _, segment := range b.segments {
		if segment.ID() == nm1SegmentId && segment.Get(1) == entityReceiver {
			return Receiver{
				OrganizationName:    segment.Get(3),
				IdentifierCode:      segment.Get(9),
				IdentifierQualifier: segment.Get(8),
			}
		}
	}
	return Receiver{}
}

// providers locates every billing-provider level segment (HL with level
// code 20) and populates each provider from the window up to the next
// level segment.
func (b *docBuilder) providers() []Provider {
	providers := []Provider{}

	for i, segment := range b.segments {
		if segment.ID() != hlSegmentId || segment.Get(3) != hlLevelBillingProvider {
			continue
		}
		provider := Provider{
			HierarchicalLevel: segment.Get(1),
			LevelCode:         segment.Get(3),
			HasChildren:       segment.Get(4) == "1",
			ProviderType:      "billing",
		}

		end := b.windowEnd(i+1, hlSegmentId)
		for j := i + 1; j < end; j++ {
			seg := b.segments[j]
			switch seg.ID() {
			case nm1SegmentId:
				if seg.Get(1) == entityBillingProvider {
					if provider.Organization == nil {
						provider.Organization = &Organization{}
					}
					provider.Organization.Name = seg.Get(3)
					provider.Organization.NPI = seg.Get(9)
				}
			case n3SegmentId:
				if provider.Address == nil {
					provider.Address = &Address{}
				}
				provider.Address.Street = seg.Get(1)
			case n4SegmentId:
				if provider.Address == nil {
					provider.Address = &Address{}
				}
				provider.Address.City = seg.Get(1)
				provider.Address.State = seg.Get(2)
				provider.Address.Zip = seg.Get(3)
			case refSegmentId:
				if seg.Get(1) == "EI" {
					if provider.Organization == nil {
						provider.Organization = &Organization{}
					}
					provider.Organization.TaxID = seg.Get(2)
				}
			}
		}
		providers = append(providers, provider)
	}
	return providers
}

// subscribers locates every subscriber level segment (HL with level code
// 22); each window extends to the next level or claim segment.
func (b *docBuilder) subscribers() []Subscriber {
	subscribers := []Subscriber{}

	for i, segment := range b.segments {
		if segment.ID() != hlSegmentId || segment.Get(3) != hlLevelSubscriber {
			continue
		}
		subscriber := Subscriber{
			HierarchicalLevel: segment.Get(1),
			ParentLevel:       segment.Get(2),
			LevelCode:         segment.Get(3),
			HasChildren:       segment.Get(4) == "1",
		}

		end := b.windowEnd(i+1, hlSegmentId, clmSegmentId)
		for j := i + 1; j < end; j++ {
			seg := b.segments[j]
			switch seg.ID() {
			case sbrSegmentId:
				subscriber.PayerResponsibility = decodePayerResponsibility(seg.Get(1))
				subscriber.RelationshipCode = seg.Get(2)
				subscriber.Relationship = relationshipCodes[seg.Get(2)]
				subscriber.ClaimFilingIndicator = seg.Get(9)
			case nm1SegmentId:
				switch seg.Get(1) {
				case entitySubscriber:
					patient := subscriber.ensurePatient()
					patient.LastName = seg.Get(3)
					patient.FirstName = seg.Get(4)
					patient.MiddleName = seg.Get(5)
					patient.MemberID = seg.Get(9)
				case entityPayer:
					subscriber.Payer = &Payer{
						Name:                seg.Get(3),
						PayerID:             seg.Get(9),
						IdentifierQualifier: seg.Get(8),
					}
				}
			case n3SegmentId:
				address := subscriber.ensurePatient().ensureAddress()
				address.Street = seg.Get(1)
			case n4SegmentId:
				address := subscriber.ensurePatient().ensureAddress()
				address.City = seg.Get(1)
				address.State = seg.Get(2)
				address.Zip = seg.Get(3)
			case dmgSegmentId:
				patient := subscriber.ensurePatient()
				if patient.Demographics == nil {
					patient.Demographics = &Demographics{}
				}
				patient.Demographics.DateOfBirth = formatDate(seg.Get(2))
				patient.Demographics.Gender = seg.Get(3)
			}
		}
		subscribers = append(subscribers, subscriber)
	}
	return subscribers
}

func (s *Subscriber) ensurePatient() *Patient {
	if s.Patient == nil {
		s.Patient = &Patient{}
	}
	return s.Patient
}

func (p *Patient) ensureAddress() *Address {
	if p.Address == nil {
		p.Address = &Address{}
	}
	return p.Address
}

// claims locates every CLM segment; each window extends to the next
// claim or the closing transaction envelope.
func (b *docBuilder) claims() []Claim {
	claims := []Claim{}

	for i, segment := range b.segments {
		if segment.ID() != clmSegmentId {
			continue
		}
		claim := Claim{
			ClaimID:           segment.Get(1),
			TotalChargeAmount: safeFloat(segment.Get(2)),
		}

		if facility := segment.Get(5); facility != "" {
			parts := strings.Split(facility, b.subSep)
			claim.PlaceOfService = parts[0]
			if len(parts) > 2 {
				claim.ClaimFrequency = parts[2]
			}
		}
		claim.ProviderSignature = segment.Get(6)
		claim.AssignmentOfBenefits = segment.Get(7)
		claim.ReleaseOfInformation = segment.Get(8)
		claim.PatientSignature = segment.Get(9)

		end := b.windowEnd(i+1, clmSegmentId, seSegmentId)
		for j := i + 1; j < end; j++ {
			seg := b.segments[j]
			switch seg.ID() {
			case dtpSegmentId:
				b.claimDate(&claim, seg)
			case cl1SegmentId:
				claim.AdmissionType = seg.Get(1)
				claim.AdmissionSource = seg.Get(2)
				claim.PatientStatus = seg.Get(3)
			case hiSegmentId:
				b.claimDiagnoses(&claim, seg)
			}
		}

		claim.ServiceLines = b.serviceLines(i, end)
		claims = append(claims, claim)
	}
	return claims
}

func (b *docBuilder) claimDate(claim *Claim, seg RawSegment) {
	switch seg.Get(1) {
	case "431":
		claim.ensureDates().AdmissionDate = formatDate(seg.Get(3))
	case "434":
		dateRange := strings.Split(seg.Get(3), "-")
		if len(dateRange) == 2 {
			dates := claim.ensureDates()
			dates.AdmissionDate = formatDate(dateRange[0])
			dates.DischargeDate = formatDate(dateRange[1])
		}
	}
}

// claimDiagnoses splits each HI composite into qualifier and code: the
// first becomes the principal diagnosis, the rest are additional.
func (b *docBuilder) claimDiagnoses(claim *Claim, seg RawSegment) {
	for k := 1; k < len(seg); k++ {
		parts := strings.Split(seg[k], b.subSep)
		if len(parts) < 2 {
			continue
		}
		diag := Diagnosis{Code: parts[1], CodeType: parts[0]}
		if claim.Diagnoses == nil {
			claim.Diagnoses = &Diagnoses{Additional: []Diagnosis{}}
		}
		if claim.Diagnoses.Principal == nil {
			claim.Diagnoses.Principal = &diag
		} else {
			claim.Diagnoses.Additional = append(claim.Diagnoses.Additional, diag)
		}
	}
}

func (c *Claim) ensureDates() *ClaimDates {
	if c.Dates == nil {
		c.Dates = &ClaimDates{}
	}
	return c.Dates
}

// serviceLines collects the LX sub-windows of a claim window. Each line's
// sub-window is bounded by the next LX or the end of the claim window.
func (b *docBuilder) serviceLines(claimStart, claimEnd int) []ServiceLine {
	lines := []ServiceLine{}

	for i := claimStart; i < claimEnd; i++ {
		seg := b.segments[i]
		if seg.ID() != lxSegmentId {
			continue
		}
		line := ServiceLine{LineNumber: safeInt(seg.Get(1))}

		end := claimEnd
		for j := i + 1; j < claimEnd; j++ {
			if b.segments[j].ID() == lxSegmentId {
				end = j
				break
			}
		}
		for j := i + 1; j < end; j++ {
			sv := b.segments[j]
			switch sv.ID() {
			case sv1SegmentId:
				if procedure := sv.Get(1); procedure != "" {
					parts := strings.Split(procedure, b.subSep)
					proc := &Procedure{CodeType: parts[0]}
					if len(parts) > 1 {
						proc.Code = parts[1]
						proc.Description = procedureDescriptions[parts[1]]
					}
					line.Procedure = proc
				}
				line.ChargeAmount = safeFloat(sv.Get(2))
				line.Unit = sv.Get(3)
				line.Quantity = safeFloat(sv.Get(4))
				line.PlaceOfService = sv.Get(6)
			case dtpSegmentId:
				if sv.Get(1) == "472" {
					line.ServiceDate = formatDate(sv.Get(3))
				}
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func (b *docBuilder) controlTotals() ControlTotals {
	totals := ControlTotals{}
	if se := b.find(seSegmentId); se != nil {
		totals.TransactionSegmentCount = safeIntPtr(se.Get(seIndexSegmentCount))
	}
	if ge := b.find(geSegmentId); ge != nil {
		totals.FunctionalGroupCount = safeIntPtr(ge.Get(geIndexTransactionSetCount))
	}
	if iea := b.find(ieaSegmentId); iea != nil {
		totals.InterchangeControlNumber = iea.Get(ieaIndexControlNumber)
	}
	return totals
}

// formatDate converts CCYYMMDD to YYYY-MM-DD, returning an empty string
// for values too short to hold a full calendar date.
func formatDate(value string) string {
	if len(value) < 8 {
		return ""
	}
	return value[0:4] + "-" + value[4:6] + "-" + value[6:8]
}

// formatTime converts HHMM to HH:MM, returning an empty string for
// values too short.
func formatTime(value string) string {
	if len(value) < 4 {
		return ""
	}
	return value[0:2] + ":" + value[2:4]
}

// safeFloat parses a decimal leniently, returning 0 when unparsable.
func safeFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

func safeInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func safeIntPtr(value string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &n
}

func decodePayerResponsibility(code string) string {
	if name, ok := payerResponsibilityCodes[code]; ok {
		return name
	}
	return code
}
