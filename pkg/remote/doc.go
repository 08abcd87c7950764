// ABOUTME: Remote control server package
// ABOUTME: Exposes a mixer over the jamjar websocket protocol
// Package remote serves the jamjar control protocol.
//
// Example:
//
//	m := mixer.New[string](mixer.Config{}, library, volumes)
//	server, err := remote.NewServer(remote.Config{
//	    Port:   8930,
//	    Target: m,
//	})
//	go server.Start()
//	defer server.Stop()
package remote
