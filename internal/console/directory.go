package console

import "net/http"

// showEmployees renders the employee directory.
func (h *Handler) showEmployees(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Snapshot()
	employees, err := h.directory.ListEmployees(r.Context(), sess.Token)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "pages/employees.html", "Empleados", DirectoryData{Employees: employees})
}

// showOrganization renders the department structure. The route is admin-only.
func (h *Handler) showOrganization(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Snapshot()
	departments, err := h.directory.ListDepartments(r.Context(), sess.Token)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "pages/organization.html", "Configuración organizacional", OrganizationData{Departments: departments})
}
