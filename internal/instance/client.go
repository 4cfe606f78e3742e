package instance

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoOwner means nothing accepted a connection on the channel.
	ErrNoOwner = errors.New("no owner on channel")
	// ErrOwnerHung means an owner accepted the connection but the payload
	// could not be written in time.
	ErrOwnerHung = errors.New("owner accepted but did not take the payload")
)

// Send forwards payload to the owner of ch as one UTF-8 message.
// Failures are classified as ErrNoOwner or ErrOwnerHung.
func Send(ch Channel, payload string, connectTimeout, writeTimeout time.Duration) error {
	conn, err := dial(ch, connectTimeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoOwner, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("%w: %v", ErrOwnerHung, err)
	}
	if _, err := conn.Write([]byte(payload)); err != nil {
		return fmt.Errorf("%w: %v", ErrOwnerHung, err)
	}
	return nil
}
