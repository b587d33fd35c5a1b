package scraper

// SeedURLs returns the fixed list of North Carolina public bid portals a
// run scans. Order matters: test mode scans only the first entry.
func SeedURLs() []string {
	return []string{
		// Statewide agencies
		"https://ncadmin.nc.gov/businesses/construction/projects-design-advertised-bidding",
		"https://connect.ncdot.gov/letting/Pages/default.aspx",

		// Major counties and cities
		"https://www.mecknc.gov/Finance/Procurement/Pages/Solicitations.aspx",
		"https://www.wake.gov/departments-government/finance/business-inclusion-procurement/solicitation-opportunities",
		"https://www.charlottenc.gov/Businesses/Business-Inclusion/Vendor-Management",
		"https://raleighnc.gov/doing-business/bids-and-proposals",
		"https://www.cmsk12.org/en-US/doing-business/solicitations",
	}
}
