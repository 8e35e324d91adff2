package pantopia

// Dataset is a full set of CRM records, used by the mock backend and the
// sample breadcrumb resolver.
type Dataset struct {
	Companies   []Company
	Contacts    []Contact
	Projects    []Project
	Briefs      []Brief
	DataSources []DataSource
	Paragraphs  []Paragraph
}

// SampleDataset returns the demo records shipped with the dashboard.
// Each call returns fresh slices.
func SampleDataset() Dataset {
	return Dataset{
		Companies: []Company{
			{ID: "1", Name: "Tech Innovations Inc", Industry: "Software", Website: "https://techinnovations.example.com", Description: "Enterprise software and cloud tooling.", CreatedAt: "2024-01-15T09:00:00Z", UpdatedAt: "2024-06-01T12:30:00Z"},
			{ID: "2", Name: "Global Solutions Ltd", Industry: "Consulting", Website: "https://globalsolutions.example.com", Description: "Management and IT consulting.", CreatedAt: "2024-02-03T10:15:00Z", UpdatedAt: "2024-05-20T08:00:00Z"},
			{ID: "3", Name: "Green Energy Co", Industry: "Energy", Website: "https://greenenergy.example.com", Description: "Solar and wind installations.", CreatedAt: "2024-03-11T14:45:00Z", UpdatedAt: "2024-06-10T16:20:00Z"},
			{ID: "4", Name: "Digital Dynamics", Industry: "Marketing", Website: "https://digitaldynamics.example.com", Description: "Performance marketing agency.", CreatedAt: "2024-04-22T11:00:00Z", UpdatedAt: "2024-06-12T09:10:00Z"},
		},
		Contacts: []Contact{
			{ID: "1", CompanyID: "1", FirstName: "John", LastName: "Smith", Email: "john.smith@techinnovations.example.com", Phone: "+1 555 0100", Title: "CTO"},
			{ID: "2", CompanyID: "1", FirstName: "Sarah", LastName: "Johnson", Email: "sarah.johnson@techinnovations.example.com", Phone: "+1 555 0101", Title: "VP Sales"},
			{ID: "3", CompanyID: "2", FirstName: "Michael", LastName: "Brown", Email: "m.brown@globalsolutions.example.com", Phone: "+44 20 7946 0000", Title: "Partner"},
			{ID: "4", CompanyID: "3", FirstName: "Emily", LastName: "Davis", Email: "emily@greenenergy.example.com", Phone: "+1 555 0142", Title: "Head of Procurement"},
		},
		Projects: []Project{
			{ID: "1", CompanyID: "1", Name: "Website Redesign", Description: "Refresh of the public marketing site.", Status: "Active", StartDate: "2024-03-01", EndDate: "2024-09-30"},
			{ID: "2", CompanyID: "2", Name: "Mobile App Development", Description: "Field consultant companion app.", Status: "Planning", StartDate: "2024-07-01", EndDate: "2025-01-31"},
			{ID: "3", CompanyID: "3", Name: "Cloud Migration", Description: "Move billing workloads to the cloud.", Status: "Completed", StartDate: "2023-10-01", EndDate: "2024-04-15"},
		},
		Briefs: []Brief{
			{ID: "1", Title: "Q3 Sales Strategy", ClientID: "1", ProjectID: "1", Status: BriefInProgress, Summary: "Expansion plan for the enterprise tier.", UpdatedAt: "2024-06-11T10:00:00Z"},
			{ID: "2", Title: "Consulting Upsell Brief", ClientID: "2", ProjectID: "2", Status: BriefDraft, Summary: "Position the mobile programme as a retainer.", UpdatedAt: "2024-06-08T15:30:00Z"},
			{ID: "3", Title: "Renewables Market Entry", ClientID: "3", ProjectID: "3", Status: BriefReview, Summary: "Entry strategy for the commercial solar segment.", UpdatedAt: "2024-06-02T09:45:00Z"},
			{ID: "4", Title: "Legacy Campaign Retrospective", ClientID: "4", Status: BriefArchived, Summary: "Lessons from the 2023 campaign.", UpdatedAt: "2024-01-20T13:00:00Z"},
		},
		DataSources: []DataSource{
			{ID: "1", CompanyID: "1", Name: "Company website", Kind: KindWebsite, URL: "https://techinnovations.example.com", Status: StatusNotExtracted, CreatedAt: "2024-06-01T09:00:00Z"},
			{ID: "2", CompanyID: "1", Name: "Annual report 2023", Kind: KindPDF, FileName: "annual-report-2023.pdf", Status: StatusProcessed, CreatedAt: "2024-05-28T14:00:00Z"},
			{ID: "3", CompanyID: "1", Name: "Sales call recording", Kind: KindAudio, FileName: "discovery-call.mp3", Status: StatusNotExtracted, CreatedAt: "2024-06-05T16:30:00Z"},
			{ID: "4", CompanyID: "2", Name: "Capabilities deck", Kind: KindWord, FileName: "capabilities.docx", Status: StatusNotExtracted, CreatedAt: "2024-06-03T11:00:00Z"},
			{ID: "5", CompanyID: "3", Name: "Installation pipeline", Kind: KindExcel, FileName: "pipeline-q2.xlsx", Status: StatusNotExtracted, CreatedAt: "2024-06-07T08:20:00Z"},
		},
		Paragraphs: []Paragraph{
			{ID: "1", DataSourceID: "2", Title: "Revenue growth", MainIdea: "Revenue grew 42% year over year.", Body: "<p>Revenue grew <strong>42%</strong> driven by the enterprise tier.</p>"},
			{ID: "2", DataSourceID: "2", Title: "Cloud expansion", MainIdea: "Two new regions opened in 2023.", Body: "Two new regions opened in **2023**, lowering latency for EU customers."},
			{ID: "3", DataSourceID: "2", Title: "Hiring plan", MainIdea: "Engineering headcount doubles in 2024.", Body: "- Platform team: 20 hires\n- Sales engineering: 8 hires"},
		},
	}
}

// CompanyByID finds a company in the dataset.
func (d Dataset) CompanyByID(id string) (Company, bool) {
	for _, c := range d.Companies {
		if c.ID == id {
			return c, true
		}
	}
	return Company{}, false
}
