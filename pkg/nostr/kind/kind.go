// Package kind gives the event kind numbers a type so they will be referred
// to as kind.ProfileMetadata and so on, instead of bare integers, and the
// compiler enforces the distinction.
package kind

// T is the event type discriminator in the nostr protocol.
type T uint16

func (ki T) ToInt() int       { return int(ki) }
func (ki T) ToUint16() uint16 { return uint16(ki) }

const (
	// ProfileMetadata is an event type that stores user profile data, display
	// name, bio, lightning address, etc, in the content as a JSON object.
	ProfileMetadata T = 0
	// TextNote is a standard short plain text note.
	TextNote T = 1
	// RecommendRelay is an event type that suggests a relay to followers.
	RecommendRelay T = 2
	// ClassifiedListing is a parameterized replaceable event describing a
	// marketplace listing, tagged with structured attributes and replaced
	// idempotently under its d tag.
	ClassifiedListing T = 30402
	// DraftClassifiedListing is an inactive classified listing.
	DraftClassifiedListing T = 30403
)
