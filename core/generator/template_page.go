package generator

// PageTemplate renders the React list page for one model. Regenerated on
// every run; layout customization belongs in the frontend's own components.
const PageTemplate = `// Code generated by constructors v{{.Version}}. DO NOT EDIT.

import React, { useEffect, useState } from 'react';

export interface {{pascal .Model.Name}} {
  id: string;
{{- range .Model.Fields}}
  {{.Name}}{{if .IsOptional}}?{{end}}: {{tsType .}};
{{- end}}
}

interface ListResponse {
  items: {{pascal .Model.Name}}[];
  total: number;
}

export default function {{plural (pascal .Model.Name)}}Page() {
  const [items, setItems] = useState<{{pascal .Model.Name}}[]>([]);
  const [total, setTotal] = useState(0);
  const [loading, setLoading] = useState(true);
  const [error, setError] = useState<string | null>(null);

  useEffect(() => {
    fetch('/api/v1/{{kebab (snake (plural (pascal .Model.Name)))}}')
      .then((res) => {
        if (!res.ok) throw new Error('request failed: ' + res.status);
        return res.json() as Promise<ListResponse>;
      })
      .then((data) => {
        setItems(data.items);
        setTotal(data.total);
      })
      .catch((err) => setError(err.message))
      .finally(() => setLoading(false));
  }, []);

  if (loading) return <div>Loading…</div>;
  if (error) return <div className="error">{error}</div>;

  return (
    <div className="page">
      <h1>{{titlecase (plural .Model.Name)}} ({total})</h1>
      <table>
        <thead>
          <tr>
{{- range .Model.Fields}}{{if .ShowInTable}}
            <th>{{.Label}}</th>
{{- end}}{{end}}
          </tr>
        </thead>
        <tbody>
          {items.map((item) => (
            <tr key={item.id}>
{{- range .Model.Fields}}{{if .ShowInTable}}
              <td>{String(item.{{.Name}} ?? '')}</td>
{{- end}}{{end}}
            </tr>
          ))}
        </tbody>
      </table>
    </div>
  );
}
`
