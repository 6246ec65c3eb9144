package handler

import (
	"context"
	"strings"
	"time"

	"github.com/novarift/server/internal/net"
	"github.com/novarift/server/internal/net/packet"
	"go.uber.org/zap"
)

// Login failure reasons.
const (
	loginFailBadCredentials int32 = 1
	loginFailBanned         int32 = 2
	loginFailAlreadyOnline  int32 = 3
)

func dbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// HandleLogin validates credentials and moves the session to character
// selection.
func HandleLogin(sess *net.Session, r *packet.Reader, deps *Deps) {
	accountName := strings.ToLower(r.ReadS())
	password := r.ReadS()

	ctx, cancel := dbCtx()
	defer cancel()

	account, err := deps.AccountRepo.Load(ctx, accountName)
	if err != nil {
		deps.Log.Error("account load failed", zap.Error(err))
		sess.SendMethod(packet.SysEntityClient, packet.LoginFailed{Reason: loginFailBadCredentials})
		return
	}

	if account == nil {
		if !deps.Config.World.AutoCreateAccounts {
			sess.SendMethod(packet.SysEntityClient, packet.LoginFailed{Reason: loginFailBadCredentials})
			return
		}
		account, err = deps.AccountRepo.Create(ctx, accountName, password)
		if err != nil {
			deps.Log.Error("account auto-create failed", zap.Error(err))
			sess.SendMethod(packet.SysEntityClient, packet.LoginFailed{Reason: loginFailBadCredentials})
			return
		}
		deps.Log.Info("account auto-created", zap.String("account", accountName))
	} else if !deps.AccountRepo.ValidatePassword(account.PasswordHash, password) {
		sess.SendMethod(packet.SysEntityClient, packet.LoginFailed{Reason: loginFailBadCredentials})
		return
	}

	if account.Banned {
		sess.SendMethod(packet.SysEntityClient, packet.LoginFailed{Reason: loginFailBanned})
		sess.Close()
		return
	}
	if account.Online {
		sess.SendMethod(packet.SysEntityClient, packet.LoginFailed{Reason: loginFailAlreadyOnline})
		return
	}

	if err := deps.AccountRepo.SetOnline(ctx, account.ID, true); err != nil {
		deps.Log.Warn("mark account online failed", zap.Error(err))
	}

	sess.AccountID = account.ID
	sess.AccountName = account.Name
	pctx(sess).Account = account
	sess.SetState(packet.StateCharacterSelection)

	sess.SendMethod(packet.SysEntityClient, packet.LoginOK{AccountID: account.ID})
	deps.Log.Info("login ok",
		zap.String("account", account.Name),
		zap.Uint64("session", sess.ID),
	)

	startCharacterSelection(sess, deps)
}
