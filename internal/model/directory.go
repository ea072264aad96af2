// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// General council roles.
const (
	CouncilSuperiorGeneral = "superior_general"
	CouncilVicarGeneral    = "vicar_general"
	CouncilCouncillor      = "councillor"
	CouncilSecretary       = "secretary_general"
	CouncilTreasurer       = "treasurer_general"
	CouncilProcurator      = "procurator_general"
)

// CouncilTitles lists council roles in precedence order.
var CouncilTitles = []string{
	CouncilSuperiorGeneral,
	CouncilVicarGeneral,
	CouncilCouncillor,
	CouncilSecretary,
	CouncilTreasurer,
	CouncilProcurator,
}

// Provincial roles.
const (
	ProvincialSuperior   = "provincial"
	ProvincialVice       = "vice_provincial"
	ProvincialRegional   = "regional_superior"
	ProvincialDelegate   = "delegate"
	ProvincialCouncillor = "provincial_councillor"
)

// ProvincialTitles lists provincial roles in precedence order.
var ProvincialTitles = []string{
	ProvincialSuperior,
	ProvincialVice,
	ProvincialRegional,
	ProvincialDelegate,
	ProvincialCouncillor,
}

// IsCouncilTitle reports whether t is a known council role.
func IsCouncilTitle(t string) bool {
	return slices.Contains(CouncilTitles, t)
}

// IsProvincialTitle reports whether t is a known provincial role.
func IsProvincialTitle(t string) bool {
	return slices.Contains(ProvincialTitles, t)
}
