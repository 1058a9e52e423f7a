package models

import "testing"

func TestCanTransition_AllowedPairs(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusInProgress, StatusPendingReview},
		{StatusPendingReview, StatusReviewed},
		{StatusPendingReview, StatusRejected},
		{StatusRejected, StatusInProgress},
		{StatusRejected, StatusPendingReview},
		{StatusReviewed, StatusCompleted},
		{StatusReviewed, StatusRejected},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("Chuyển %q -> %q phải hợp lệ", tc.from, tc.to)
		}
	}
}

func TestCanTransition_DisallowedPairs(t *testing.T) {
	disallowed := []struct{ from, to string }{
		{StatusInProgress, StatusReviewed},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusRejected},
		{StatusPendingReview, StatusCompleted},
		{StatusPendingReview, StatusInProgress},
		{StatusReviewed, StatusInProgress},
		{StatusRejected, StatusReviewed},
		{StatusRejected, StatusCompleted},
	}
	for _, tc := range disallowed {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("Chuyển %q -> %q phải bị chặn", tc.from, tc.to)
		}
	}
}

func TestCanTransition_CompletedIsTerminal(t *testing.T) {
	for _, to := range []string{StatusInProgress, StatusPendingReview, StatusReviewed, StatusRejected, StatusCompleted} {
		if CanTransition(StatusCompleted, to) {
			t.Errorf("Completed là trạng thái cuối, không được chuyển sang %q", to)
		}
	}
	if len(AllowedNextStatuses(StatusCompleted)) != 0 {
		t.Error("AllowedNextStatuses(Completed) phải rỗng")
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	if CanTransition("Archived", StatusInProgress) {
		t.Error("Trạng thái ngoài tập đóng không được có transition")
	}
	if CanTransition(StatusInProgress, "Archived") {
		t.Error("Không được chuyển sang trạng thái ngoài tập đóng")
	}
	if CanTransition(StatusInProgress, StatusInProgress) {
		t.Error("Tự chuyển về chính mình không nằm trong bảng transition")
	}
}

func TestAllowedNextStatuses(t *testing.T) {
	next := AllowedNextStatuses(StatusPendingReview)
	if len(next) != 2 {
		t.Fatalf("Pending Review phải có đúng 2 đích, nhận %v", next)
	}
	want := map[string]bool{StatusReviewed: true, StatusRejected: true}
	for _, s := range next {
		if !want[s] {
			t.Errorf("Đích không mong đợi từ Pending Review: %q", s)
		}
	}
}
