/*
Package server exposes a phrase dictionary over msgpack IPC.

Clients write msgpack encoded requests to the server's stdin and read one
msgpack encoded response per request from its stdout. Messages are handled
synchronously and every lookup response carries the time it took in
microseconds.

The first message the server sends is a ready status:

	{"status": "ready"}

Lookups name an action, a query and an optional limit:

	{"id": "req_001", "a": "starts", "q": "pan", "k": 8}
	{"id": "req_002", "a": "ends", "q": "lanac"}

and are answered with canonical words and their true names:

	{"id": "req_001", "w": [{"w": "panama", "n": "Panama"}], "c": 1, "t": 12}

Other actions are "name" (true name of q), "count" (words starting with q,
counting at most k when k is given),
"check" (is q a Panama palindrome) and "stats".

Failed requests get an error message instead:

	{"id": "req_003", "e": "unknown action: grow", "c": 400}
*/
package server

// Request is a single client message. Limit caps the words a lookup returns
// (default 10, at most the server's maximum). For "count" it caps the count
// itself, and an unset Limit counts every match.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a"`
	Query  string `msgpack:"q"`
	Limit  int    `msgpack:"k,omitempty"`
	// Terminal is the phrase a "check" must end with.
	Terminal string `msgpack:"x,omitempty"`
}

// Entry is one dictionary word in a response.
type Entry struct {
	Word     string `msgpack:"w"`
	TrueName string `msgpack:"n"`
}

// LookupResponse answers starts, ends, name and count requests.
type LookupResponse struct {
	ID        string  `msgpack:"id"`
	Entries   []Entry `msgpack:"w"`
	Count     int     `msgpack:"c"`
	TimeTaken int64   `msgpack:"t"`
}

// CheckResponse answers check requests.
type CheckResponse struct {
	ID        string `msgpack:"id"`
	Canonical string `msgpack:"k"`
	Panama    bool   `msgpack:"ok"`
}

// StatsResponse answers stats requests.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"s"`
}

// StatusResponse signals server state changes.
type StatusResponse struct {
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
