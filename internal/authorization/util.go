// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

const (
	MEMBER_RELATION = "member"
	ADMIN_RELATION  = "admin"

	CAN_VIEW_PERMISSION = "can_view"
	CAN_EDIT_PERMISSION = "can_edit"

	PLATFORM_ID = "medpay"
)

func UserTuple(userId string) string {
	return "user:" + userId
}

func CompanyTuple(companyId string) string {
	return "company:" + companyId
}

func PlatformTuple(platformId string) string {
	return "platform:" + platformId
}
