package domain

import (
	"fmt"
	"strconv"
)

type Permission uint64

const (
	PermissionCreateInstantInvite Permission = 1 << iota
	PermissionKickMembers
	PermissionBanMembers
	PermissionAdministrator
	PermissionManageChannels
	PermissionManageGuild
	PermissionAddReactions
	PermissionViewAuditLog
	PermissionPrioritySpeaker
	PermissionStream
	PermissionViewChannel
	PermissionSendMessages
	PermissionSendTTSMessages
	PermissionManageMessages
	PermissionEmbedLinks
	PermissionAttachFiles
	PermissionReadMessageHistory
	PermissionMentionEveryone
	PermissionUseExternalEmojis
	PermissionViewGuildInsights
	PermissionConnect
	PermissionSpeak
	PermissionMuteMembers
	PermissionDeafenMembers
	PermissionMoveMembers
	PermissionUseVAD
	PermissionChangeNickname
	PermissionManageNicknames
	PermissionManageRoles
	PermissionManageWebhooks
	PermissionManageEmojis
	PermissionUseSlashCommands
	PermissionRequestToSpeak
)

// ParsePermissions decodes the decimal string form used by the API.
func ParsePermissions(raw string) (Permission, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse permissions %q: %w", raw, err)
	}
	return Permission(value), nil
}

func HasPermission(permissions, permission Permission) bool {
	return permissions&permission == permission
}

func HasPermissions(permissions Permission, required ...Permission) bool {
	for _, permission := range required {
		if !HasPermission(permissions, permission) {
			return false
		}
	}
	return true
}
