package obs

import (
	"encoding/json"
)

type OpCode int

// obs-websocket v5 opcodes
const (
	OpHello            OpCode = 0
	OpIdentify         OpCode = 1
	OpIdentified       OpCode = 2
	OpReidentify       OpCode = 3
	OpEvent            OpCode = 5
	OpRequest          OpCode = 6
	OpRequestResponse  OpCode = 7
	OpRequestBatch     OpCode = 8
	OpRequestBatchResp OpCode = 9
)

const RPCVersion = 1

// EventSubscriptionAll subscribes to every non high-volume event category.
const EventSubscriptionAll = 0x7FF

// Close codes sent by OBS that mean the handshake was rejected.
const (
	CloseAuthenticationFailed = 4009
	CloseUnsupportedRPC       = 4010
)

// Message is the outer envelope of every frame on the control connection.
type Message struct {
	Op OpCode          `json:"op"`
	D  json.RawMessage `json:"d"`
}

type Hello struct {
	OBSWebSocketVersion string                   `json:"obsWebSocketVersion"`
	RPCVersion          int                      `json:"rpcVersion"`
	Authentication      *AuthenticationChallenge `json:"authentication,omitempty"`
}

type AuthenticationChallenge struct {
	Challenge string `json:"challenge"`
	Salt      string `json:"salt"`
}

type Identify struct {
	RPCVersion         int    `json:"rpcVersion"`
	Authentication     string `json:"authentication,omitempty"`
	EventSubscriptions int    `json:"eventSubscriptions"`
}

type Identified struct {
	NegotiatedRPCVersion int `json:"negotiatedRpcVersion"`
}

type Request struct {
	RequestType string `json:"requestType"`
	RequestID   string `json:"requestId"`
	RequestData any    `json:"requestData"`
}

type RequestStatus struct {
	Result  bool   `json:"result"`
	Code    int    `json:"code"`
	Comment string `json:"comment,omitempty"`
}

type RequestResponse struct {
	RequestType   string          `json:"requestType"`
	RequestID     string          `json:"requestId"`
	RequestStatus RequestStatus   `json:"requestStatus"`
	ResponseData  json.RawMessage `json:"responseData,omitempty"`
}

// Status codes that obs-websocket puts in RequestStatus.Code.
const (
	StatusSuccess              = 100
	StatusMissingRequestType   = 203
	StatusUnknownRequestType   = 204
	StatusOutputRunning        = 500
	StatusOutputNotRunning     = 501
	StatusResourceNotFound     = 600
	StatusRequestProcessingErr = 702
)

func encode(op OpCode, d any) ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Op: op, D: raw})
}
