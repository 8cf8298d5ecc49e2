package msgs

const (
	MsgOperationSuccessful = "operation successful"
	MsgOperationFailed     = "operation failed"
	MsgYouMustLoginFirst   = "you must login first"
	MsgMessageSent         = "message sent"
	MsgReplySent           = "reply sent"
	MsgFailedToSend        = "failed to send message"
	MsgFailedToReply       = "failed to send reply"
	MsgFailedToFetch       = "failed to fetch messages"
	MsgFailedToFetchInbox  = "failed to fetch inbox"
)
