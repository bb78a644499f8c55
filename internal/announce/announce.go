// Package announce hands a rendered weather report off to an AllStar node by
// originating a playback call through the Asterisk manager interface.
package announce

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/wd4sel/weather-announcer/internal/ami"
	"github.com/wd4sel/weather-announcer/internal/config"
)

const (
	dialTimeout = 10 * time.Second

	// The node plays a pre-recorded announcement; the originate timeout is
	// enforced by the switch, not by this process.
	playbackData     = "silence/1&weather-announcement"
	originateTimeout = "30000"
	callerID         = "Weather Service <1000>"
)

// DialFunc opens a manager session; injectable so tests never need a switch.
type DialFunc func(host string, port int) (ami.Session, error)

// Announcer originates the weather announcement on the configured node.
type Announcer struct {
	cfg  config.AsteriskConfig
	dial DialFunc
}

// New creates an Announcer. A nil dial falls back to ami.Connect.
func New(cfg config.AsteriskConfig, dial DialFunc) *Announcer {
	if dial == nil {
		dial = func(host string, port int) (ami.Session, error) {
			return ami.Connect(host, port, dialTimeout)
		}
	}
	return &Announcer{cfg: cfg, dial: dial}
}

// Announce logs in to the manager interface and originates the playback call.
// The message itself is logged for the operator; the audio played is the
// node's pre-recorded announcement resource.
func (a *Announcer) Announce(message string) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("asterisk configuration incomplete: %w", err)
	}

	log.Printf("INFO: announcing on node %s: %s", a.cfg.Node, message)

	sess, err := a.dial(a.cfg.Host, a.cfg.Port)
	if err != nil {
		return fmt.Errorf("connect to asterisk: %w", err)
	}
	defer sess.Close()

	if err := sess.Login(a.cfg.Username, a.cfg.Secret); err != nil {
		return fmt.Errorf("asterisk login: %w", err)
	}

	action := ami.Action{
		Name: "Originate",
		ID:   uuid.NewString(),
		Fields: map[string]string{
			"Channel":     fmt.Sprintf("Local/%s@from-internal", a.cfg.Node),
			"Application": "Playback",
			"Data":        playbackData,
			"Priority":    "1",
			"Timeout":     originateTimeout,
			"CallerID":    callerID,
		},
	}

	if err := sess.Send(action); err != nil {
		return fmt.Errorf("originate announcement: %w", err)
	}
	return nil
}
