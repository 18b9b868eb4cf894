package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an identifier the server may send as a JSON string or a JSON
// number. Both decode to the same string form, so "7" and 7 are equal.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
	case data[0] == '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*id = ID(raw)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unrecognised id %s", data)
		}
		*id = ID(n.String())
	}
	return nil
}

func (id ID) String() string { return string(id) }

func idStrings(ids []ID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// The decoders below shadow every identifier field with an ID so numeric
// ids from the server decode into the string fields.

func (a *Approval) UnmarshalJSON(data []byte) error {
	type plain Approval
	aux := struct {
		*plain
		ID          ID `json:"id"`
		RequesterID ID `json:"requesterId"`
		ApproverID  ID `json:"approverId"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.ID, a.RequesterID, a.ApproverID = aux.ID.String(), aux.RequesterID.String(), aux.ApproverID.String()
	return nil
}

func (a *Attendance) UnmarshalJSON(data []byte) error {
	type plain Attendance
	aux := struct {
		*plain
		ID         ID `json:"id"`
		EmployeeID ID `json:"employeeId"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.ID, a.EmployeeID = aux.ID.String(), aux.EmployeeID.String()
	return nil
}

func (e *Employee) UnmarshalJSON(data []byte) error {
	type plain Employee
	aux := struct {
		*plain
		ID           ID `json:"id"`
		DepartmentID ID `json:"departmentId"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.ID, e.DepartmentID = aux.ID.String(), aux.DepartmentID.String()
	return nil
}

func (l *LeaveRequest) UnmarshalJSON(data []byte) error {
	type plain LeaveRequest
	aux := struct {
		*plain
		ID         ID `json:"id"`
		EmployeeID ID `json:"employeeId"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.ID, l.EmployeeID = aux.ID.String(), aux.EmployeeID.String()
	return nil
}

func (m *Meeting) UnmarshalJSON(data []byte) error {
	type plain Meeting
	aux := struct {
		*plain
		ID           ID   `json:"id"`
		OrganizerID  ID   `json:"organizerId"`
		Participants []ID `json:"participants"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.ID, m.OrganizerID = aux.ID.String(), aux.OrganizerID.String()
	m.Participants = idStrings(aux.Participants)
	return nil
}

func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	aux := struct {
		*plain
		ID         ID `json:"id"`
		SenderID   ID `json:"senderId"`
		ReceiverID ID `json:"receiverId"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.ID, m.SenderID, m.ReceiverID = aux.ID.String(), aux.SenderID.String(), aux.ReceiverID.String()
	return nil
}

func (n *Notice) UnmarshalJSON(data []byte) error {
	type plain Notice
	aux := struct {
		*plain
		ID       ID `json:"id"`
		AuthorID ID `json:"authorId"`
	}{plain: (*plain)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n.ID, n.AuthorID = aux.ID.String(), aux.AuthorID.String()
	return nil
}

func (r *LoginResponse) UnmarshalJSON(data []byte) error {
	type plain LoginResponse
	aux := struct {
		*plain
		UserID       ID `json:"userId"`
		DepartmentID ID `json:"departmentId"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.UserID, r.DepartmentID = aux.UserID.String(), aux.DepartmentID.String()
	return nil
}
