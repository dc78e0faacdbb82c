package models

// StreamTokenResponse carries the per-user chat token plus the identity
// fields the web client passes to the Stream SDK
type StreamTokenResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// EnsurePeerRequest asks the bridge to sync a counterpart's identity
// before a channel is opened against it
type EnsurePeerRequest struct {
	PeerID int64 `json:"peerId" binding:"required,min=1"`
}

// EnsurePeerResponse confirms the peer is present on the chat platform
type EnsurePeerResponse struct {
	Success  bool   `json:"success"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// ProfilePictureRequest is the payload for profile picture upload
type ProfilePictureRequest struct {
	ImageData   string `json:"imageData" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// ProfilePictureResponse returns the stored public URL
type ProfilePictureResponse struct {
	Success  bool   `json:"success"`
	PhotoURL string `json:"photoUrl"`
}
