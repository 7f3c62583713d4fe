// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package screens

import "github.com/canonical/medpay-admin/pkg/guard"

// Routes is the screen table of the application.
var Routes = []guard.Route{
	{Name: "login", Path: guard.LoginPath, Public: true},
	{Name: "dashboard", Path: guard.LandingPath},
	{Name: "empresas", Path: "/empresas"},
	{Name: "medicos", Path: "/medicos"},
	{Name: "procedimentos", Path: "/procedimentos"},
	{Name: "lancamentos", Path: "/lancamentos"},
	{Name: "pagamentos", Path: "/pagamentos"},
	{Name: "relatorios", Path: "/relatorios"},
	{Name: "usuarios", Path: "/usuarios", AdminOnly: true},
	{Name: "configuracoes", Path: "/configuracoes", AdminOnly: true},
}
