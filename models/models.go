package models

import (
	"encoding/json"
	"time"
)

// Member is the account behind a session subject
type Member struct {
	Id    int64   `json:"id"`
	Uid   string  `json:"uid"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// RoomInfo holds the denormalized names shown on every feed card
type RoomInfo struct {
	RoomName  *string
	OwnerName *string
}

// Item model with the columns the feed needs
type Item struct {
	Id        int64
	RoomId    int64
	MemberId  int64
	Name      *string
	Price     int64 // smallest currency unit
	Sale      bool
	BuyUrl    *string
	Images    []string
	CreatedAt time.Time
}

// Record model with the columns the feed needs
type Record struct {
	Id        int64
	RoomId    int64
	MemberId  int64
	Text      *string
	Images    []string
	CreatedAt time.Time
}

type EntryKind string

const (
	KindItem   EntryKind = "item"
	KindRecord EntryKind = "record"
)

// FeedEntry is the card shape shared by items and records
type FeedEntry struct {
	Id         string    `json:"id"`
	Type       EntryKind `json:"type"`
	RoomId     string    `json:"roomId"`
	MemberId   string    `json:"memberId"`
	MemberName *string   `json:"memberName"`
	RoomName   *string   `json:"roomName"`
	Images     []string  `json:"images"`
	CreatedAt  time.Time `json:"createdAt"`

	// Item fields
	Name   *string `json:"name"`
	Sale   *bool   `json:"sale"`
	Price  *string `json:"price"`
	BuyUrl *string `json:"buyUrl"`

	// Record fields
	Text *string `json:"text"`

	SourceId int64 `json:"-"`
}

type entryJSON struct {
	Id         string    `json:"id"`
	Type       EntryKind `json:"type"`
	RoomId     string    `json:"roomId"`
	MemberId   string    `json:"memberId"`
	MemberName *string   `json:"memberName"`
	RoomName   *string   `json:"roomName"`
	Images     []string  `json:"images"`
	CreatedAt  time.Time `json:"createdAt"`
}

type itemJSON struct {
	entryJSON
	Name   *string `json:"name"`
	Sale   *bool   `json:"sale"`
	Price  *string `json:"price"`
	BuyUrl *string `json:"buyUrl"`
}

type recordJSON struct {
	entryJSON
	Text *string `json:"text"`
}

// MarshalJSON writes only the fields of the entry's kind. Missing values of
// those fields are written as null.
func (e FeedEntry) MarshalJSON() ([]byte, error) {
	base := entryJSON{
		Id:         e.Id,
		Type:       e.Type,
		RoomId:     e.RoomId,
		MemberId:   e.MemberId,
		MemberName: e.MemberName,
		RoomName:   e.RoomName,
		Images:     e.Images,
		CreatedAt:  e.CreatedAt,
	}
	if e.Type == KindRecord {
		return json.Marshal(recordJSON{entryJSON: base, Text: e.Text})
	}
	return json.Marshal(itemJSON{entryJSON: base, Name: e.Name, Sale: e.Sale, Price: e.Price, BuyUrl: e.BuyUrl})
}

type FeedResponse struct {
	Items      []FeedEntry `json:"items"`
	NextCursor *string     `json:"nextCursor"`
}

// GameSave is the ranking view of a saved game
type GameSave struct {
	Id              int64
	MemberId        int64
	Data            []byte
	RankScore       int64
	RankCharacterId *string
	UpdatedAt       time.Time
}
