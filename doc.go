// Package mydropbox implements the client side of the myDropbox storage
// gateway: account registration, login and logout, and file upload, download,
// listing and sharing.
//
// # Key Components
//
//   - Service: file and account operations composed over a Gateway
//   - Gateway: interface to the remote HTTP gateway (see the gateway package)
//   - Session: the identity currently logged in, owned by the caller
//   - EncodeContent / DecodeContent: base64 codec for file bodies
//   - HashSecret / NewCredential: password digests sent on the wire
//
// # Example Usage
//
//	client, err := gateway.New(&gateway.Config{Endpoint: "https://api.example.com"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	svc, err := mydropbox.NewService(client)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session := mydropbox.NewSession()
//	if err := svc.Login(ctx, session, "alice", "secret"); err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := svc.Upload(ctx, "notes.txt", session.Username())
//
// # Password Digests
//
// Passwords travel as an unsalted SHA-256 hex digest because that is what the
// gateway stores and compares. Treat the digest as password-equivalent: it is
// kept only for compatibility with existing accounts.
package mydropbox
