package interfaces

import (
	"errors"
	"fmt"
)

// ResultCode is the status of the most recent underlying library call.
// Values match the FSUIPC_ERR_* codes of the FSUIPC user library.
type ResultCode uint32

const (
	ResultOK      ResultCode = iota // Okay
	ResultOpen                      // already open
	ResultNoFS                      // no simulator or WideClient
	ResultRegMsg                    // message registration failed
	ResultAtom                      // atom creation failed
	ResultMap                       // file mapping creation failed
	ResultView                      // map view failed
	ResultVersion                   // wrong FSUIPC version
	ResultWrongFS                   // simulator is not the one requested
	ResultNotOpen                   // link not open
	ResultNoData                    // nothing scheduled
	ResultTimeout                   // IPC timed out
	ResultSendMsg                   // IPC send failed
	ResultData                      // IPC request contains bad data
	ResultRunning                   // WideClient up but simulator not running
	ResultSize                      // request memory full
)

var resultMessages = [...]string{
	ResultOK:      "Okay",
	ResultOpen:    "Attempt to Open when already Open",
	ResultNoFS:    "Cannot link to FSUIPC or WideClient",
	ResultRegMsg:  "Failed to Register common message with Windows",
	ResultAtom:    "Failed to create Atom for mapping filename",
	ResultMap:     "Failed to create a file mapping object",
	ResultView:    "Failed to open a view to the file map",
	ResultVersion: "Incorrect version of FSUIPC, or not FSUIPC",
	ResultWrongFS: "Sim is not version requested",
	ResultNotOpen: "Call cannot execute, link not Open",
	ResultNoData:  "Call cannot execute: no requests accumulated",
	ResultTimeout: "IPC timed out all retries",
	ResultSendMsg: "IPC sendmessage failed all retries",
	ResultData:    "IPC request contains bad data",
	ResultRunning: "Maybe running on WideClient, but FS not running on Server, or wrong FSUIPC",
	ResultSize:    "Read or Write request cannot be added, memory for Process is full",
}

var resultNames = [...]string{
	"OK", "OPEN", "NOFS", "REGMSG", "ATOM", "MAP", "VIEW", "VERSION",
	"WRONGFS", "NOTOPEN", "NODATA", "TIMEOUT", "SENDMSG", "DATA", "RUNNING", "SIZE",
}

// Message returns the FSUIPC description of the result.
func (r ResultCode) Message() string {
	if int(r) < len(resultMessages) {
		return resultMessages[r]
	}
	return fmt.Sprintf("Unknown result %d", uint32(r))
}

// String returns the short FSUIPC name, e.g. "NOTOPEN".
func (r ResultCode) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("RESULT(%d)", uint32(r))
}

func (r ResultCode) Error() string {
	return "fsuipc: " + r.Message()
}

// ResultOf extracts the ResultCode carried by err. A nil error is ResultOK
// and an error that carries no code is ResultData.
func ResultOf(err error) ResultCode {
	if err == nil {
		return ResultOK
	}
	var rc ResultCode
	if errors.As(err, &rc) {
		return rc
	}
	return ResultData
}
