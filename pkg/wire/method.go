package wire

// Method represents an outbound pub/sub request method.
type Method string

const (
	// MethodAccountSubscribe subscribes to changes of a single account.
	MethodAccountSubscribe Method = "accountSubscribe"

	// MethodAccountUnsubscribe cancels an account subscription.
	MethodAccountUnsubscribe Method = "accountUnsubscribe"

	// MethodProgramSubscribe subscribes to changes of all accounts owned
	// by a program.
	MethodProgramSubscribe Method = "programSubscribe"

	// MethodProgramUnsubscribe cancels a program subscription.
	MethodProgramUnsubscribe Method = "programUnsubscribe"

	// MethodSignatureSubscribe subscribes to the status of a transaction
	// signature. The node removes the subscription itself once the
	// signature reaches the requested commitment.
	MethodSignatureSubscribe Method = "signatureSubscribe"

	// MethodSignatureUnsubscribe cancels a signature subscription.
	MethodSignatureUnsubscribe Method = "signatureUnsubscribe"

	// MethodLogsSubscribe subscribes to transaction log output.
	MethodLogsSubscribe Method = "logsSubscribe"

	// MethodLogsUnsubscribe cancels a logs subscription.
	MethodLogsUnsubscribe Method = "logsUnsubscribe"
)

// IsValid returns true if the method is a known pub/sub method.
func (m Method) IsValid() bool {
	switch m {
	case MethodAccountSubscribe, MethodAccountUnsubscribe,
		MethodProgramSubscribe, MethodProgramUnsubscribe,
		MethodSignatureSubscribe, MethodSignatureUnsubscribe,
		MethodLogsSubscribe, MethodLogsUnsubscribe:
		return true
	default:
		return false
	}
}

// IsSubscribe returns true for the subscribe variants.
func (m Method) IsSubscribe() bool {
	switch m {
	case MethodAccountSubscribe, MethodProgramSubscribe,
		MethodSignatureSubscribe, MethodLogsSubscribe:
		return true
	default:
		return false
	}
}

// Stream returns the stream kind the method operates on.
// Returns false for methods outside the known enumeration.
func (m Method) Stream() (StreamKind, bool) {
	switch m {
	case MethodAccountSubscribe, MethodAccountUnsubscribe:
		return StreamAccount, true
	case MethodProgramSubscribe, MethodProgramUnsubscribe:
		return StreamProgram, true
	case MethodSignatureSubscribe, MethodSignatureUnsubscribe:
		return StreamSignature, true
	case MethodLogsSubscribe, MethodLogsUnsubscribe:
		return StreamLogs, true
	default:
		return 0, false
	}
}

// StreamKind identifies one of the push stream types the node offers.
type StreamKind uint8

const (
	// StreamAccount carries single-account state updates.
	StreamAccount StreamKind = 1

	// StreamProgram carries updates for accounts owned by a program.
	StreamProgram StreamKind = 2

	// StreamSignature carries transaction signature status updates.
	StreamSignature StreamKind = 3

	// StreamLogs carries transaction log output.
	StreamLogs StreamKind = 4
)

// String returns the stream kind name.
func (k StreamKind) String() string {
	switch k {
	case StreamAccount:
		return "ACCOUNT"
	case StreamProgram:
		return "PROGRAM"
	case StreamSignature:
		return "SIGNATURE"
	case StreamLogs:
		return "LOGS"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the stream kind is a known value.
func (k StreamKind) IsValid() bool {
	return k >= StreamAccount && k <= StreamLogs
}

// SubscribeMethod returns the subscribe method for the stream.
func (k StreamKind) SubscribeMethod() Method {
	switch k {
	case StreamAccount:
		return MethodAccountSubscribe
	case StreamProgram:
		return MethodProgramSubscribe
	case StreamSignature:
		return MethodSignatureSubscribe
	case StreamLogs:
		return MethodLogsSubscribe
	default:
		return ""
	}
}

// UnsubscribeMethod returns the unsubscribe method for the stream.
func (k StreamKind) UnsubscribeMethod() Method {
	switch k {
	case StreamAccount:
		return MethodAccountUnsubscribe
	case StreamProgram:
		return MethodProgramUnsubscribe
	case StreamSignature:
		return MethodSignatureUnsubscribe
	case StreamLogs:
		return MethodLogsUnsubscribe
	default:
		return ""
	}
}

// NotificationMethod returns the method name the node uses for pushes
// on this stream.
func (k StreamKind) NotificationMethod() string {
	switch k {
	case StreamAccount:
		return "accountNotification"
	case StreamProgram:
		return "programNotification"
	case StreamSignature:
		return "signatureNotification"
	case StreamLogs:
		return "logsNotification"
	default:
		return ""
	}
}

// StreamForNotification maps an inbound notification method name to its
// stream kind. Returns false for method names outside the enumeration;
// such pushes are dropped by the classifier.
func StreamForNotification(method string) (StreamKind, bool) {
	switch method {
	case "accountNotification":
		return StreamAccount, true
	case "programNotification":
		return StreamProgram, true
	case "signatureNotification":
		return StreamSignature, true
	case "logsNotification":
		return StreamLogs, true
	default:
		return 0, false
	}
}

// Commitment is the consistency level requested for subscription data.
type Commitment string

const (
	// CommitmentRecent requests the most recent state the node has seen.
	CommitmentRecent Commitment = "recent"

	// CommitmentConfirmed requests cluster-confirmed state.
	CommitmentConfirmed Commitment = "confirmed"
)

// Encoding is the account data encoding requested for subscription data.
type Encoding string

// EncodingBase64 requests base64-encoded account data buffers.
const EncodingBase64 Encoding = "base64"

// SubscribeConfig is the trailing configuration object appended to every
// subscribe request's params.
type SubscribeConfig struct {
	Commitment Commitment `json:"commitment"`
	Encoding   Encoding   `json:"encoding"`
}

// DefaultConfigFor returns the fixed subscribe configuration used for a
// stream: log streams ask for confirmed state, everything else recent.
// Encoding is always base64.
func DefaultConfigFor(kind StreamKind) SubscribeConfig {
	commitment := CommitmentRecent
	if kind == StreamLogs {
		commitment = CommitmentConfirmed
	}
	return SubscribeConfig{Commitment: commitment, Encoding: EncodingBase64}
}
