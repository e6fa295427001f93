package models

import "time"

// ReportSession holds the record set a client is currently viewing so it
// can be re-sorted without re-parsing.
type ReportSession struct {
	ID        string    `json:"id" msgpack:"id"`
	FileID    string    `json:"fileId,omitempty" msgpack:"fileId,omitempty"`
	FileName  string    `json:"fileName,omitempty" msgpack:"fileName,omitempty"`
	Root1     string    `json:"root1,omitempty" msgpack:"root1,omitempty"`
	Root2     string    `json:"root2,omitempty" msgpack:"root2,omitempty"`
	SortKey   SortKey   `json:"sortKey" msgpack:"sortKey"`
	Result    Result    `json:"result" msgpack:"result"`
	CreatedAt time.Time `json:"createdAt" msgpack:"createdAt"`
}
