// ABOUTME: Jamjar remote control protocol package
// ABOUTME: Defines protocol messages and the WebSocket client
// Package protocol implements the jamjar remote control protocol.
//
// Messages are JSON text frames of the form {"type": ..., "payload": ...}.
// A client opens with client/hello and then sends mixer/* commands.
//
// Example:
//
//	client := protocol.NewClient(protocol.Config{ServerAddr: "localhost:8930", Name: "ctl"})
//	err := client.Connect()
//	err = client.PlaySound(audio.Sound[string]{Key: "chime", Volume: 1, Speed: 1})
package protocol
