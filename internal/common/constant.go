// Package common contains shared constants, sentinel errors and the username
// predicate used by both the tsn server and client.
package common

// MailboxCapacity is the number of most recent posts kept live per user.
const MailboxCapacity = 20

// SessionIDHeaderName is the gRPC metadata key the server uses to echo the
// session id assigned to a Timeline stream.
const SessionIDHeaderName = "x-session-id"

// MaxPostLength is the largest post body, in bytes, the server accepts.
const MaxPostLength = 16 * 1024

// MaxFrameSize bounds a single inbound transport message. It leaves room for
// a MaxPostLength body plus the envelope.
const MaxFrameSize = 64 * 1024
