// Package integration contains end-to-end tests that exercise the Salachat
// server through real WebSocket connections: connecting, joining rooms,
// typing suggestions, mention highlighting, and disconnect cleanup.
package integration

import (
	"strings"
	"testing"
	"time"

	"github.com/salachat/salachat/test/testhelpers"
)

// TestConnectAssignsName verifies that every new connection is greeted with
// its generated display name before anything else.
func TestConnectAssignsName(t *testing.T) {
	ts := testhelpers.StartServer(t)

	_, name := testhelpers.Connect(t, ts)
	if name == "" {
		t.Fatal("connection was not assigned a display name")
	}
}

// TestJoinRoomAnnouncesNewMember verifies that joining a room broadcasts a
// welcome message to everyone in it.
func TestJoinRoomAnnouncesNewMember(t *testing.T) {
	ts := testhelpers.StartServer(t)

	c1, _ := testhelpers.Connect(t, ts)
	testhelpers.SendEvent(t, c1, map[string]string{"event": "joinRoom", "room": "lobby"})
	testhelpers.WaitForEvent(t, c1, "systemMessage")

	c2, name2 := testhelpers.Connect(t, ts)
	testhelpers.SendEvent(t, c2, map[string]string{"event": "joinRoom", "room": "lobby"})

	ev1 := testhelpers.WaitForEvent(t, c1, "systemMessage")
	ev2 := testhelpers.WaitForEvent(t, c2, "systemMessage")
	for _, ev := range []testhelpers.Event{ev1, ev2} {
		if !strings.Contains(ev.Text, name2) {
			t.Errorf("welcome message %q does not name the joiner %q", ev.Text, name2)
		}
		if ev.Room != "lobby" {
			t.Errorf("welcome message targeted room %q", ev.Room)
		}
	}
}

// TestChatMessageReachesWholeRoom verifies fan-out of a chat message to all
// members, including the sender.
func TestChatMessageReachesWholeRoom(t *testing.T) {
	ts := testhelpers.StartServer(t)

	c1, name1 := testhelpers.Connect(t, ts)
	c2, _ := testhelpers.Connect(t, ts)
	testhelpers.SendEvent(t, c1, map[string]string{"event": "joinRoom", "room": "lobby"})
	testhelpers.WaitForEvent(t, c1, "systemMessage")
	testhelpers.SendEvent(t, c2, map[string]string{"event": "joinRoom", "room": "lobby"})
	testhelpers.WaitForEvent(t, c1, "systemMessage")
	testhelpers.WaitForEvent(t, c2, "systemMessage")

	testhelpers.SendEvent(t, c1, map[string]string{
		"event": "chatMessage", "room": "lobby", "message": "hello everyone",
	})

	ev1 := testhelpers.WaitForEvent(t, c1, "chatMessage")
	ev2 := testhelpers.WaitForEvent(t, c2, "chatMessage")
	for _, ev := range []testhelpers.Event{ev1, ev2} {
		if ev.Sender != name1 {
			t.Errorf("expected sender %q, got %q", name1, ev.Sender)
		}
		if ev.Message != "hello everyone" {
			t.Errorf("unexpected message %q", ev.Message)
		}
	}
}

// TestMentionIsHighlighted verifies that mentioning a connected user's name
// emphasizes the mention in the broadcast message.
func TestMentionIsHighlighted(t *testing.T) {
	ts := testhelpers.StartServer(t)

	c1, _ := testhelpers.Connect(t, ts)
	c2, name2 := testhelpers.Connect(t, ts)
	testhelpers.SendEvent(t, c1, map[string]string{"event": "joinRoom", "room": "lobby"})
	testhelpers.WaitForEvent(t, c1, "systemMessage")
	testhelpers.SendEvent(t, c2, map[string]string{"event": "joinRoom", "room": "lobby"})
	testhelpers.WaitForEvent(t, c2, "systemMessage")

	testhelpers.SendEvent(t, c1, map[string]string{
		"event": "chatMessage", "room": "lobby", "message": "ping @" + name2,
	})

	ev := testhelpers.WaitForEvent(t, c2, "chatMessage")
	if want := "<b>@" + name2 + "</b>"; !strings.Contains(ev.Message, want) {
		t.Errorf("expected highlighted mention %q in %q", want, ev.Message)
	}
}

// TestTypingProducesSuggestionsForTypistOnly verifies live autocomplete:
// the typist gets a suggestion list, other members get nothing.
func TestTypingProducesSuggestionsForTypistOnly(t *testing.T) {
	ts := testhelpers.StartServer(t)

	c1, _ := testhelpers.Connect(t, ts)
	c2, name2 := testhelpers.Connect(t, ts)

	prefix := strings.ToLower(name2[:2])
	testhelpers.SendEvent(t, c1, map[string]string{"event": "typing", "text": "hey @" + prefix})

	ev := testhelpers.WaitForEvent(t, c1, "mentionSuggestions")
	found := false
	for _, s := range ev.Suggestions {
		if s == name2 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q among suggestions %v", name2, ev.Suggestions)
	}

	testhelpers.ExpectSilence(t, c2, 150*time.Millisecond)
}

// TestInvalidChatMessageIsDropped verifies that a message without a room
// produces no broadcast.
func TestInvalidChatMessageIsDropped(t *testing.T) {
	ts := testhelpers.StartServer(t)

	c1, _ := testhelpers.Connect(t, ts)
	testhelpers.SendEvent(t, c1, map[string]string{"event": "joinRoom", "room": "lobby"})
	testhelpers.WaitForEvent(t, c1, "systemMessage")

	testhelpers.SendEvent(t, c1, map[string]string{"event": "chatMessage", "message": "orphan"})
	testhelpers.SendEvent(t, c1, map[string]string{"event": "chatMessage", "room": "lobby"})

	testhelpers.ExpectSilence(t, c1, 150*time.Millisecond)
}

// TestDisconnectedMemberLeavesRooms verifies that a closed connection no
// longer blocks or receives room traffic.
func TestDisconnectedMemberLeavesRooms(t *testing.T) {
	ts := testhelpers.StartServer(t)

	c1, _ := testhelpers.Connect(t, ts)
	c2, _ := testhelpers.Connect(t, ts)
	testhelpers.SendEvent(t, c1, map[string]string{"event": "joinRoom", "room": "lobby"})
	testhelpers.WaitForEvent(t, c1, "systemMessage")
	testhelpers.SendEvent(t, c2, map[string]string{"event": "joinRoom", "room": "lobby"})
	testhelpers.WaitForEvent(t, c2, "systemMessage")

	if err := testhelpers.CloseWebSocket(c1); err != nil {
		t.Fatalf("failed to close first client: %v", err)
	}
	// Give the server a moment to process the disconnect.
	time.Sleep(100 * time.Millisecond)

	testhelpers.SendEvent(t, c2, map[string]string{
		"event": "chatMessage", "room": "lobby", "message": "still here",
	})

	ev := testhelpers.WaitForEvent(t, c2, "chatMessage")
	if ev.Message != "still here" {
		t.Errorf("surviving member did not receive broadcast: %+v", ev)
	}
}
