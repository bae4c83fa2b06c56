package service

import (
	"testing"

	"github.com/onlinestore/internal/constants"
	"github.com/onlinestore/internal/repository"
)

func TestUserLoginLogServiceRecordNormalizes(t *testing.T) {
	db := setupServiceTestDB(t, "user_login_log_service_test")
	svc := NewUserLoginLogService(repository.NewUserLoginLogRepository(db))

	inputs := []RecordUserLoginInput{
		{UserID: 1, Email: " Jane@Example.com ", Status: "SUCCESS", FailReason: "ignored", ClientIP: " 10.0.0.1 "},
		{Email: "ghost@example.com", Status: "whatever"},
		{UserID: 1, Email: "jane@example.com", Status: constants.LoginLogStatusFailed, FailReason: constants.LoginLogFailReasonUserDisabled, LoginSource: constants.LoginLogSourceRefresh},
	}
	for _, input := range inputs {
		if err := svc.Record(input); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	logs, total, err := svc.ListForAdmin(repository.UserLoginLogListFilter{Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 logs for jane, got %d", total)
	}
	for _, log := range logs {
		if log.Status == constants.LoginLogStatusSuccess && (log.FailReason != "" || log.ClientIP != "10.0.0.1" || log.LoginSource != constants.LoginLogSourceWeb) {
			t.Fatalf("unexpected success log: %+v", log)
		}
	}

	failed, total, err := svc.ListForAdmin(repository.UserLoginLogListFilter{Status: "FAILED"})
	if err != nil {
		t.Fatalf("list failed logs failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 failed logs, got %d", total)
	}
	for _, log := range failed {
		if log.Email == "ghost@example.com" && log.FailReason != constants.LoginLogFailReasonInternalError {
			t.Fatalf("expected default fail reason, got %q", log.FailReason)
		}
	}
}

func TestUserLoginLogServiceNilSafe(t *testing.T) {
	var svc *UserLoginLogService
	if err := svc.Record(RecordUserLoginInput{Email: "a@example.com"}); err != nil {
		t.Fatalf("nil service record should be no-op: %v", err)
	}
	logs, total, err := svc.ListForAdmin(repository.UserLoginLogListFilter{})
	if err != nil || total != 0 || len(logs) != 0 {
		t.Fatalf("nil service list should be empty")
	}
}
