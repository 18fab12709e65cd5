package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverride_SubmitSendsExactPayloadAndReloadsOnce(t *testing.T) {
	gw := newFakeGateway()
	s := startedSession(t, gw)

	w, err := s.BeginOverride(0, 1)
	require.NoError(t, err)
	assert.Equal(t, OverrideCollecting, w.State())
	assert.Len(t, w.Subjects(), 2)
	assert.Len(t, w.Teachers(), 2)
	assert.Len(t, w.Rooms(), 2)
	assert.Equal(t, "09:50-10:35", w.Label)

	err = w.Submit(context.Background(), OverrideSelection{SubjectID: 2, TeacherID: 5, RoomID: 1})
	require.NoError(t, err)
	assert.Equal(t, OverrideCommitted, w.State())

	schedCalls, overrideCalls := gw.calls()
	assert.Equal(t, []OverrideRequest{
		{ClassID: 3, Day: 0, Slot: 1, SubjectID: 2, TeacherID: 5, RoomID: 1},
	}, overrideCalls)
	// 启动时一次 + 覆盖成功后一次
	assert.Equal(t, []int64{3, 3}, schedCalls)

	c := s.Grid().Rows[0][1]
	assert.Equal(t, CellAssigned, c.State)
	assert.Equal(t, "Science", c.Subject)
	assert.Equal(t, "Anita Sen", c.Teacher)
	assert.Equal(t, "Room 101", c.Room)
}

func TestOverride_MissingFieldNeverContactsBackend(t *testing.T) {
	gw := newFakeGateway()
	s := startedSession(t, gw)

	w, err := s.BeginOverride(0, 1)
	require.NoError(t, err)

	err = w.Submit(context.Background(), OverrideSelection{SubjectID: 2, TeacherID: 5})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Contains(t, ve.Fields[0], "教室")
	assert.Equal(t, OverrideCollecting, w.State())

	schedCalls, overrideCalls := gw.calls()
	assert.Empty(t, overrideCalls)
	assert.Len(t, schedCalls, 1)
}

func TestOverride_UnknownReferenceNeverContactsBackend(t *testing.T) {
	gw := newFakeGateway()
	s := startedSession(t, gw)

	w, err := s.BeginOverride(2, 2)
	require.NoError(t, err)

	err = w.Submit(context.Background(), OverrideSelection{SubjectID: 9, TeacherID: 5, RoomID: 8})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 2)

	_, overrideCalls := gw.calls()
	assert.Empty(t, overrideCalls)
}

func TestOverride_RejectedStaysOpenWithoutReload(t *testing.T) {
	gw := newFakeGateway()
	gw.overrideErr = &OverrideRejected{Status: http.StatusConflict, Code: 17101, Reason: "该教师在此时间段已有课程"}
	s := startedSession(t, gw)
	before := s.Grid()

	w, err := s.BeginOverride(1, 0)
	require.NoError(t, err)

	err = w.Submit(context.Background(), OverrideSelection{SubjectID: 1, TeacherID: 6, RoomID: 2})

	var rejected *OverrideRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "该教师在此时间段已有课程", rejected.Reason)
	assert.Equal(t, OverrideFailed, w.State())
	assert.Equal(t, err, w.Err())
	assert.Same(t, before, s.Grid())

	schedCalls, _ := gw.calls()
	assert.Len(t, schedCalls, 1)

	// 修改后重新提交
	gw.mu.Lock()
	gw.overrideErr = nil
	gw.mu.Unlock()
	require.NoError(t, w.Submit(context.Background(), OverrideSelection{SubjectID: 1, TeacherID: 5, RoomID: 2}))
	assert.Equal(t, OverrideCommitted, w.State())

	schedCalls, overrideCalls := gw.calls()
	assert.Len(t, schedCalls, 2)
	assert.Len(t, overrideCalls, 2)
}

func TestOverride_CancelMakesNoCalls(t *testing.T) {
	gw := newFakeGateway()
	s := startedSession(t, gw)

	w, err := s.BeginOverride(4, 5)
	require.NoError(t, err)
	require.NoError(t, w.Cancel())
	assert.Equal(t, OverrideCancelled, w.State())

	err = w.Submit(context.Background(), OverrideSelection{SubjectID: 1, TeacherID: 5, RoomID: 1})
	assert.ErrorIs(t, err, ErrWorkflowClosed)
	assert.ErrorIs(t, w.Cancel(), ErrWorkflowClosed)

	schedCalls, overrideCalls := gw.calls()
	assert.Empty(t, overrideCalls)
	assert.Len(t, schedCalls, 1)
}

func TestOverride_SecondSubmitWhileSubmittingIsRejected(t *testing.T) {
	gw := newFakeGateway()
	s := startedSession(t, gw)

	gate := make(chan struct{})
	started := make(chan struct{})
	gw.mu.Lock()
	gw.overrideGate = gate
	gw.overrideStarted = started
	gw.mu.Unlock()

	w, err := s.BeginOverride(0, 0)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- w.Submit(context.Background(), OverrideSelection{SubjectID: 1, TeacherID: 5, RoomID: 1})
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("覆盖请求未发出")
	}
	assert.Equal(t, OverrideSubmitting, w.State())

	err = w.Submit(context.Background(), OverrideSelection{SubjectID: 2, TeacherID: 6, RoomID: 2})
	assert.ErrorIs(t, err, ErrOverrideInFlight)
	assert.ErrorIs(t, w.Cancel(), ErrOverrideInFlight)

	_, err = s.BeginOverride(1, 1)
	assert.ErrorIs(t, err, ErrOverrideInFlight)

	_, err = s.Generate(context.Background())
	assert.ErrorIs(t, err, ErrMutationInFlight)

	close(gate)
	require.NoError(t, <-done)

	_, overrideCalls := gw.calls()
	assert.Len(t, overrideCalls, 1)
}

func TestOverride_BeginReplacesOpenWorkflow(t *testing.T) {
	s := startedSession(t, newFakeGateway())

	first, err := s.BeginOverride(0, 0)
	require.NoError(t, err)
	second, err := s.BeginOverride(0, 1)
	require.NoError(t, err)

	assert.Equal(t, OverrideCancelled, first.State())
	assert.Equal(t, OverrideCollecting, second.State())
}

func TestOverride_BeginRejectsUnknownCell(t *testing.T) {
	s := startedSession(t, newFakeGateway())

	_, err := s.BeginOverride(5, 0)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = s.BeginOverride(0, 6)
	assert.ErrorAs(t, err, &ve)
}
