package types

import "time"

// RawRecord is one conversation record exactly as the upstream
// conversational-commerce API returns it. Any key may be absent, null or
// of an unexpected type; the pipeline extracts from it defensively.
type RawRecord map[string]any

// Channel is the canonical display name of a contact channel
type Channel string

const (
	ChannelWhatsApp     Channel = "WhatsApp"
	ChannelFacebook     Channel = "Facebook"
	ChannelInstagram    Channel = "Instagram"
	ChannelMercadoLibre Channel = "Mercado Libre"
	ChannelUnknown      Channel = "N/A"
)

// Typing is the business outcome classification of a conversation
type Typing string

const (
	TypingVenta           Typing = "VENTA"
	TypingVentaAConfirmar Typing = "VENTA A CONFIRMAR"
	TypingVentaPerdida    Typing = "VENTA PERDIDA"
	TypingOtroMotivo      Typing = "OTRO MOTIVO"
	TypingReclamo         Typing = "RECLAMO"
	TypingUnknown         Typing = "N/A"
)

// TrackedTypings are the outcome categories the KPI cards report on
var TrackedTypings = []Typing{
	TypingVenta,
	TypingVentaAConfirmar,
	TypingVentaPerdida,
	TypingOtroMotivo,
	TypingReclamo,
}

// StatusGroup collapses upstream conversation statuses into two buckets
type StatusGroup string

const (
	StatusActive   StatusGroup = "ACTIVE"
	StatusFinished StatusGroup = "FINISHED"
)

// Sentinels used when the source lacks a field. "Sin Agente" is the single
// no-agent sentinel across every normalization path.
const (
	NoAgent       = "Sin Agente"
	NoBranch      = "Sin Asignar"
	OtherBranch   = "Otro"
	DigitalBranch = "CANAL DIGITAL"
	Unknown       = "N/A"
)

// Row is one normalized conversation. The whole table is rebuilt from
// scratch on every refresh cycle; rows are never mutated afterwards.
type Row struct {
	ID           string      `json:"id"`
	CreatedAt    time.Time   `json:"createdAt"`
	HourOfDay    int         `json:"hourOfDay"`   // 0-23
	Weekday      string      `json:"weekday"`     // Monday..Sunday
	CalendarDay  string      `json:"calendarDay"` // YYYY-MM-DD
	AssignedAt   *time.Time  `json:"assignedAt,omitempty"`
	AssignedHour *int        `json:"assignedHour,omitempty"`
	Channel      Channel     `json:"channel"`
	AgentRawName string      `json:"agentRawName"`
	Branch       string      `json:"branch"` // Punto de Venta
	AgentName    string      `json:"agentName"`
	Typing       Typing      `json:"typing"`
	Status       string      `json:"status"`
	StatusGroup  StatusGroup `json:"statusGroup"`
	Direction    string      `json:"direction"`
	UserID       string      `json:"userId,omitempty"` // empty when the source had none
	UserName     string      `json:"userName,omitempty"`
	Note         string      `json:"note,omitempty"`
}

// KPISet holds every scalar metric shown on the dashboard cards.
// Recomputed in full from the current row table on every refresh.
type KPISet struct {
	TotalConversationsMonth int            `json:"totalConversationsMonth"`
	TotalConversationsToday int            `json:"totalConversationsToday"`
	UniqueContactsMonth     int            `json:"uniqueContactsMonth"`
	UniqueContactsToday     int            `json:"uniqueContactsToday"`
	TypingCounts            map[Typing]int `json:"typingCounts"`
	ConversionWhatsAppPct   float64        `json:"conversionWhatsappPct"`
	CumulativeBranchTarget  int            `json:"cumulativeBranchTarget"`
}

// Bucket is one grouped count in an aggregation view
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// BranchPerf is one row of the branch performance view
type BranchPerf struct {
	Branch         string  `json:"branch"`
	Sales          int     `json:"sales"`
	UniqueContacts int     `json:"uniqueContacts"`
	Conversion     float64 `json:"conversion"` // sales per unique contact, percent
}

// ViewSet holds the default-mode rendering of every aggregation view.
// Toggled modes are recomputed on demand from the snapshot rows.
type ViewSet struct {
	Daily             []Bucket     `json:"daily"`
	Channels          []Bucket     `json:"channels"`
	HoursOfCreation   []Bucket     `json:"hoursOfCreation"`
	HoursOfAssignment []Bucket     `json:"hoursOfAssignment"`
	Weekdays          []Bucket     `json:"weekdays"`
	Branches          []Bucket     `json:"branches"`
	Agents            []Bucket     `json:"agents"`
	StatusGroups      []Bucket     `json:"statusGroups"`
	BranchPerformance []BranchPerf `json:"branchPerformance"`
}

// Snapshot is the single immutable payload produced by one refresh cycle.
// It is swapped in atomically and broadcast to every dashboard client;
// readers see either the previous snapshot or the new one, never a mix.
type Snapshot struct {
	Type        string    `json:"type"` // always "snapshot"
	RunID       string    `json:"runId"`
	Timestamp   time.Time `json:"timestamp"`
	WindowStart time.Time `json:"windowStart"` // first instant of the current month
	Rows        []Row     `json:"rows"`
	KPIs        KPISet    `json:"kpis"`
	Views       ViewSet   `json:"views"`
}

// DailySummary is the per-day KPI archive row persisted by the store
type DailySummary struct {
	MonthKey string `json:"monthKey" dynamodbav:"MonthKey"` // YYYY-MM
	Date     string `json:"date" dynamodbav:"Date"`         // YYYY-MM-DD
	KPIs     KPISet `json:"kpis" dynamodbav:"KPIs"`
	RowCount int    `json:"rowCount" dynamodbav:"RowCount"`
}

// SortMode selects between the two display modes of a toggleable view
type SortMode string

const (
	SortChronological SortMode = "chronological"
	SortByCount       SortMode = "count"
)

// BranchMetric selects the measure of the branch performance view
type BranchMetric string

const (
	MetricSales      BranchMetric = "sales"
	MetricConversion BranchMetric = "conversion"
)
