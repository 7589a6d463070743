package model

// Profile is the tagged union over the four role-specific tables (donors,
// ngos, campaigners, admins). Exactly one variant pointer is non-nil and it
// always matches Role. Each variant row references exactly one account.
type Profile struct {
	Role       Role
	AccountID  uint64
	Donor      *DonorProfile
	NGO        *NGOProfile
	Campaigner *CampaignerProfile
	Admin      *AdminProfile
}

// DonorProfile mirrors the `donors` table.
type DonorProfile struct {
	FullName string
	Phone    string
	PANCard  string
}

// NGOProfile mirrors the `ngos` table. Approved starts false and is only
// flipped by the admin approval workflow.
type NGOProfile struct {
	OrgName            string
	Phone              string
	State              string
	City               string
	Website            string
	RegistrationNumber string
	CertificateURL     string
	PANTAN             string
	Approved           bool
}

// CampaignerProfile mirrors the `campaigners` table.
type CampaignerProfile struct {
	FullName  string
	Phone     string
	City      string
	State     string
	PANNumber string
	IDType    string
	GovtIDURL string
	Approved  bool
}

// AdminProfile mirrors the `admins` table.
type AdminProfile struct {
	AccessCode       string
	TwoFactorEnabled bool
}

// Snapshot returns the role-shaped claim set embedded in session tokens.
// NGO and campaigner snapshots carry the approval flag; donor and admin
// snapshots do not have one.
func (p Profile) Snapshot() map[string]any {
	switch p.Role {
	case RoleDonor:
		if p.Donor == nil {
			return nil
		}
		return map[string]any{
			"full_name": p.Donor.FullName,
			"phone":     p.Donor.Phone,
		}
	case RoleNGO:
		if p.NGO == nil {
			return nil
		}
		return map[string]any{
			"org_name": p.NGO.OrgName,
			"city":     p.NGO.City,
			"state":    p.NGO.State,
			"approved": p.NGO.Approved,
		}
	case RoleCampaigner:
		if p.Campaigner == nil {
			return nil
		}
		return map[string]any{
			"full_name": p.Campaigner.FullName,
			"city":      p.Campaigner.City,
			"state":     p.Campaigner.State,
			"approved":  p.Campaigner.Approved,
		}
	case RoleAdmin:
		if p.Admin == nil {
			return nil
		}
		return map[string]any{
			"two_factor_enabled": p.Admin.TwoFactorEnabled,
		}
	}
	return nil
}
