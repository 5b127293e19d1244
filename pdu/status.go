package pdu

import "fmt"

// Status is the command_status of a PDU.
type Status uint32

// Statuses defined by the protocol.
const (
	StatusOK              Status = 0x00000000
	StatusInvMsgLen       Status = 0x00000001
	StatusInvCmdLen       Status = 0x00000002
	StatusInvCmdID        Status = 0x00000003
	StatusInvBnd          Status = 0x00000004
	StatusAlyBnd          Status = 0x00000005
	StatusInvPrtFlg       Status = 0x00000006
	StatusInvRegDlvFlg    Status = 0x00000007
	StatusSysErr          Status = 0x00000008
	StatusInvSrcAdr       Status = 0x0000000A
	StatusInvDstAdr       Status = 0x0000000B
	StatusInvMsgID        Status = 0x0000000C
	StatusBindFail        Status = 0x0000000D
	StatusInvPaswd        Status = 0x0000000E
	StatusInvSysID        Status = 0x0000000F
	StatusCancelFail      Status = 0x00000011
	StatusReplaceFail     Status = 0x00000013
	StatusMsgQFul         Status = 0x00000014
	StatusInvSerTyp       Status = 0x00000015
	StatusInvNumDests     Status = 0x00000033
	StatusInvDLName       Status = 0x00000034
	StatusInvDestFlag     Status = 0x00000040
	StatusInvSubRep       Status = 0x00000042
	StatusInvEsmClass     Status = 0x00000043
	StatusCntSubDL        Status = 0x00000044
	StatusSubmitFail      Status = 0x00000045
	StatusInvSrcTON       Status = 0x00000048
	StatusInvSrcNPI       Status = 0x00000049
	StatusInvDstTON       Status = 0x00000050
	StatusInvDstNPI       Status = 0x00000051
	StatusInvSysTyp       Status = 0x00000053
	StatusInvRepFlag      Status = 0x00000054
	StatusInvNumMsgs      Status = 0x00000055
	StatusThrottled       Status = 0x00000058
	StatusInvSched        Status = 0x00000061
	StatusInvExpiry       Status = 0x00000062
	StatusInvDftMsgID     Status = 0x00000063
	StatusXTAppn          Status = 0x00000064
	StatusXPAppn          Status = 0x00000065
	StatusXRAppn          Status = 0x00000066
	StatusQueryFail       Status = 0x00000067
	StatusInvOptParStream Status = 0x000000C0
	StatusOptParNotAllwd  Status = 0x000000C1
	StatusInvParLen       Status = 0x000000C2
	StatusMissingOptParam Status = 0x000000C3
	StatusInvOptParamVal  Status = 0x000000C4
	StatusDeliveryFailure Status = 0x000000FE
	StatusUnknownErr      Status = 0x000000FF
)

// Local statuses describe outcomes decided on this side of the connection.
// They are set on synthesized responses and never travel on the wire.
const (
	StatusLocalTimeout Status = 0xFFFF0001 + iota
	StatusLocalNoConn
	StatusLocalUnbound
	StatusLocalGenericNack
	StatusLocalUnexpectedResp
	StatusLocalDisconnected
	StatusLocalUnknownError
)

const localStatusBase = 0xFFFF0000

// IsLocal reports whether s was produced locally.
func (s Status) IsLocal() bool {
	return s > localStatusBase
}

var statusNames = map[Status]string{
	StatusOK:                  "ok",
	StatusInvMsgLen:           "invalid message length",
	StatusInvCmdLen:           "invalid command length",
	StatusInvCmdID:            "invalid command id",
	StatusInvBnd:              "incorrect bind status",
	StatusAlyBnd:              "already bound",
	StatusInvPrtFlg:           "invalid priority flag",
	StatusInvRegDlvFlg:        "invalid registered delivery flag",
	StatusSysErr:              "system error",
	StatusInvSrcAdr:           "invalid source address",
	StatusInvDstAdr:           "invalid destination address",
	StatusInvMsgID:            "invalid message id",
	StatusBindFail:            "bind failed",
	StatusInvPaswd:            "invalid password",
	StatusInvSysID:            "invalid system id",
	StatusCancelFail:          "cancel failed",
	StatusReplaceFail:         "replace failed",
	StatusMsgQFul:             "message queue full",
	StatusInvSerTyp:           "invalid service type",
	StatusInvNumDests:         "invalid number of destinations",
	StatusInvDLName:           "invalid distribution list name",
	StatusInvDestFlag:         "invalid destination flag",
	StatusInvSubRep:           "invalid submit with replace",
	StatusInvEsmClass:         "invalid esm class",
	StatusCntSubDL:            "cannot submit to distribution list",
	StatusSubmitFail:          "submit failed",
	StatusInvSrcTON:           "invalid source ton",
	StatusInvSrcNPI:           "invalid source npi",
	StatusInvDstTON:           "invalid destination ton",
	StatusInvDstNPI:           "invalid destination npi",
	StatusInvSysTyp:           "invalid system type",
	StatusInvRepFlag:          "invalid replace if present flag",
	StatusInvNumMsgs:          "invalid number of messages",
	StatusThrottled:           "throttled",
	StatusInvSched:            "invalid scheduled delivery time",
	StatusInvExpiry:           "invalid validity period",
	StatusInvDftMsgID:         "invalid predefined message id",
	StatusXTAppn:              "esme receiver temporary app error",
	StatusXPAppn:              "esme receiver permanent app error",
	StatusXRAppn:              "esme receiver reject message error",
	StatusQueryFail:           "query failed",
	StatusInvOptParStream:     "error in optional part of pdu body",
	StatusOptParNotAllwd:      "optional parameter not allowed",
	StatusInvParLen:           "invalid parameter length",
	StatusMissingOptParam:     "expected optional parameter missing",
	StatusInvOptParamVal:      "invalid optional parameter value",
	StatusDeliveryFailure:     "delivery failure",
	StatusUnknownErr:          "unknown error",
	StatusLocalTimeout:        "local: response timeout",
	StatusLocalNoConn:         "local: no connection",
	StatusLocalUnbound:        "local: session not bound",
	StatusLocalGenericNack:    "local: generic nack received",
	StatusLocalUnexpectedResp: "local: unexpected response",
	StatusLocalDisconnected:   "local: disconnected",
	StatusLocalUnknownError:   "local: unknown error",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(0x%08X)", uint32(s))
}

// Error implements error so that a status can be wrapped when needed.
func (s Status) Error() string {
	return "smpp: " + s.String()
}
