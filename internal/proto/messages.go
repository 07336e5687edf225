// Package proto defines the tsn wire contract: the request/response messages,
// the TSNService gRPC service descriptor with its client and server bindings,
// and the JSON codec the messages travel in.
package proto

import "google.golang.org/protobuf/types/known/timestamppb"

// Post is a single timeline frame. On the Timeline stream the first frame a
// client sends only identifies the session owner through Username.
type Post struct {
	Username  string                 `json:"username,omitempty"`
	Text      string                 `json:"text,omitempty"`
	Timestamp *timestamppb.Timestamp `json:"timestamp,omitempty"`
}

func (x *Post) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *Post) GetText() string {
	if x != nil {
		return x.Text
	}
	return ""
}

func (x *Post) GetTimestamp() *timestamppb.Timestamp {
	if x != nil {
		return x.Timestamp
	}
	return nil
}

type RegisterRequest struct {
	Username string `json:"username"`
}

func (x *RegisterRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

type RegisterReply struct {
	Username    string `json:"username"`
	Reactivated bool   `json:"reactivated,omitempty"`
}

func (x *RegisterReply) GetReactivated() bool {
	if x != nil {
		return x.Reactivated
	}
	return false
}

type ListRequest struct {
	Username string `json:"username"`
}

func (x *ListRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

// ListReply carries both user lists joined with '\n'.
type ListReply struct {
	AllUsers       string `json:"all_users"`
	FollowingUsers string `json:"following_users"`
}

func (x *ListReply) GetAllUsers() string {
	if x != nil {
		return x.AllUsers
	}
	return ""
}

func (x *ListReply) GetFollowingUsers() string {
	if x != nil {
		return x.FollowingUsers
	}
	return ""
}

type FollowRequest struct {
	Username string `json:"username"`
	Target   string `json:"target"`
}

func (x *FollowRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *FollowRequest) GetTarget() string {
	if x != nil {
		return x.Target
	}
	return ""
}

type UnfollowRequest struct {
	Username string `json:"username"`
	Target   string `json:"target"`
}

func (x *UnfollowRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *UnfollowRequest) GetTarget() string {
	if x != nil {
		return x.Target
	}
	return ""
}

type Empty struct{}

type PingRequest struct{}

type PingReply struct {
	Status string `json:"status"`
}

func (x *PingReply) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}
