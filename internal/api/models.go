package api

import "encoding/json"

// EdgeIPLocation describes where an edge IP is located.
type EdgeIPLocation struct {
	ASNumber    int    `json:"asNumber,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	RegionCode  string `json:"regionCode,omitempty"`
}

// IPInfo is an IP address with its location.
type IPInfo struct {
	IP       string         `json:"ip,omitempty"`
	Location EdgeIPLocation `json:"ipLocation"`
}

// BaseResponse holds the fields common to all diagnostics API responses.
type BaseResponse struct {
	CompletedTime   string         `json:"completedTime"`
	CreatedBy       string         `json:"createdBy"`
	CreatedTime     string         `json:"createdTime"`
	EdgeIPLocation  EdgeIPLocation `json:"edgeIpLocation"`
	ExecutionStatus string         `json:"executionStatus"`
}

// DigRecord is one entry of a dig answer section.
type DigRecord struct {
	Hostname        string `json:"hostname"`
	PreferenceValue string `json:"preferenceValue,omitempty"`
	RecordClass     string `json:"recordClass,omitempty"`
	RecordType      string `json:"recordType,omitempty"`
	TTL             int    `json:"ttl,omitempty"`
	Value           string `json:"value,omitempty"`
}

// DigAuthority is one entry of a dig authority section.
type DigAuthority struct {
	Domain          string `json:"domain"`
	PreferenceValue string `json:"preferenceValue,omitempty"`
	RecordClass     string `json:"recordClass,omitempty"`
	RecordType      string `json:"recordType,omitempty"`
	TTL             int    `json:"ttl,omitempty"`
	Value           string `json:"value,omitempty"`
}

// DigResult is the result object of a dig response. RawDig carries the
// unparsed dig command output the API returns under "result".
type DigResult struct {
	AnswerSection    []DigRecord    `json:"answerSection"`
	AuthoritySection []DigAuthority `json:"authoritySection"`
	RawDig           string         `json:"result,omitempty"`
}

// DigResponse is the response of the dig endpoint.
type DigResponse struct {
	BaseResponse

	InternalIP string    `json:"internalIp,omitempty"`
	Result     DigResult `json:"result"`
}

// TranslateRequestEcho echoes the request parameters back in a translate
// response.
type TranslateRequestEcho struct {
	ErrorCode        string `json:"errorCode,omitempty"`
	TraceForwardLogs bool   `json:"traceForwardLogs,omitempty"`
}

// TranslateLog is one forward log line attached to a translated error.
type TranslateLog struct {
	ARL                string `json:"arl,omitempty"`
	BytesReceived      string `json:"bytesReceived,omitempty"`
	BytesServed        string `json:"bytesServed,omitempty"`
	ClientIP           string `json:"clientIp,omitempty"`
	ContentBytesServed string `json:"contentBytesServed,omitempty"`
	ContentType        string `json:"contentType,omitempty"`
	Cookie             string `json:"cookie,omitempty"`
	CPCode             string `json:"cpCode,omitempty"`
	DateTime           string `json:"dateTime,omitempty"`
	EdgeIP             string `json:"edgeIp,omitempty"`
	Error              string `json:"error,omitempty"`
	ForwardIP          string `json:"forwardIp,omitempty"`
	HostHeader         string `json:"hostHeader,omitempty"`
	HTTPMethod         string `json:"httpMethod,omitempty"`
	HTTPStatus         string `json:"httpStatus,omitempty"`
	LogType            string `json:"logType,omitempty"`
	ObjectSize         string `json:"objectSize,omitempty"`
	ObjectStatus       string `json:"objectStatus,omitempty"`
	Referer            string `json:"referer,omitempty"`
	SSLVersion         string `json:"sslVersion,omitempty"`
	TimeTaken          string `json:"timeTaken,omitempty"`
	TurnaroundTime     string `json:"turnaroundTime,omitempty"`
	UserAgent          string `json:"userAgent,omitempty"`
}

// TranslateLogLines wraps the forward log entries.
type TranslateLogLines struct {
	Logs []TranslateLog `json:"logs"`
}

// TranslateResult is the result object of an error-translator response.
type TranslateResult struct {
	CacheKeyHostname    string            `json:"cacheKeyHostname,omitempty"`
	ClientIP            IPInfo            `json:"clientIp"`
	ClientRequestMethod string            `json:"clientRequestMethod,omitempty"`
	ConnectingIP        IPInfo            `json:"connectingIp"`
	CPCode              int               `json:"cpCode,omitempty"`
	Date                string            `json:"date,omitempty"`
	EdgeServerIP        IPInfo            `json:"edgeServerIp"`
	EpochTime           int64             `json:"epochTime,omitempty"`
	HTTPResponseCode    int               `json:"httpResponseCode,omitempty"`
	LogLines            TranslateLogLines `json:"logLines"`
	OriginIP            string            `json:"originIp,omitempty"`
	PropertyName        string            `json:"propertyName,omitempty"`
	ReasonForFailure    string            `json:"reasonForFailure,omitempty"`
	URL                 string            `json:"url,omitempty"`
	UserAgent           string            `json:"userAgent,omitempty"`
	WAFDetails          string            `json:"wafDetails,omitempty"`
	NoLogs              string            `json:"noLogsErrorTitle,omitempty"`
}

// TranslateResponse is the response of the error-translator endpoint.
type TranslateResponse struct {
	BaseResponse

	Request          TranslateRequestEcho `json:"request"`
	RequestID        int64                `json:"requestId,omitempty"`
	Result           TranslateResult      `json:"result"`
	SuggestedActions []string             `json:"suggestedActions,omitempty"`
}

// parseInto unmarshals a raw API payload into model, classifying failures
// as InvalidResponseError.
func parseInto(payload json.RawMessage, model any) error {
	if err := json.Unmarshal(payload, model); err != nil {
		return &InvalidResponseError{Err: err}
	}
	return nil
}
