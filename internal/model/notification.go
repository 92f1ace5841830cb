package model

// NotificationKind classifies a transient message
type NotificationKind int

const (
	NotificationInfo NotificationKind = iota
	NotificationError
	NotificationWarn
)

var notificationKindNames = []string{"INFO", "ERROR", "WARN"}

func (k NotificationKind) String() string {
	return enumName(notificationKindNames, "NotificationKind", int(k))
}

func (k NotificationKind) MarshalJSON() ([]byte, error) {
	return marshalEnum(notificationKindNames, "notification kind", int(k))
}

func (k *NotificationKind) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnum(data, notificationKindNames, "notification kind")
	if err != nil {
		return err
	}
	*k = NotificationKind(i)
	return nil
}

// Notification is a message attached to a request, an address or a certificate
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// NewNotification returns a notification of the given kind
func NewNotification(kind NotificationKind, message string) *Notification {
	return &Notification{Kind: kind, Message: message}
}

// IsError reports whether n blocks sendability. A nil notification never does.
func (n *Notification) IsError() bool {
	return n != nil && n.Kind == NotificationError
}

func (n *Notification) clone() *Notification {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}
